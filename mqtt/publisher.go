// Package mqtt publishes fetched day-ahead prices to an MQTT broker so
// home-automation consumers pick up the curve without polling the API
// themselves.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/wnelis/entsoe-qdap-go/entsoe"
)

type Publisher struct {
	mqttClient mqtt.Client
	logger     *slog.Logger
	topic      string
}

// pricePayload is the JSON shape published per zone topic.
type pricePayload struct {
	Zone      string         `json:"zone"`
	Currency  string         `json:"currency,omitempty"`
	Unit      string         `json:"unit,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
	Prices    []payloadPoint `json:"prices"`
}

type payloadPoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

func New(broker string, port int16, username string, password string, topic string) *Publisher {
	logger := slog.Default().With("module", "mqtt")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("entsoe-qdap")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	return &Publisher{
		mqttClient: mqtt.NewClient(opts),
		logger:     logger,
		topic:      topic,
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.mqttClient.Disconnect(250)
}

// PublishPrices sends the full curve retained to <topic>/<zone name>, so a
// consumer connecting later still receives the latest published prices.
func (p *Publisher) PublishPrices(zone entsoe.Zone, points []entsoe.PricePoint) error {
	payload, err := json.Marshal(buildPayload(zone, points, time.Now()))
	if err != nil {
		return fmt.Errorf("marshaling price payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.topic, zone.Name())
	token := p.mqttClient.Publish(topic, 0, true, payload)
	if ok := token.WaitTimeout(5 * time.Second); !ok {
		return fmt.Errorf("timeout publishing prices to %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publishing prices to %s: %w", topic, token.Error())
	}

	p.logger.Debug("published prices", slog.String("topic", topic), slog.Int("noOfPoints", len(points)))
	return nil
}

func buildPayload(zone entsoe.Zone, points []entsoe.PricePoint, now time.Time) pricePayload {
	payload := pricePayload{
		Zone:      zone.Name(),
		UpdatedAt: now.UTC(),
		Prices:    make([]payloadPoint, 0, len(points)),
	}
	for _, pt := range points {
		payload.Currency = pt.Currency
		payload.Unit = pt.Unit
		payload.Prices = append(payload.Prices, payloadPoint{Time: pt.Time, Price: pt.Price})
	}
	return payload
}
