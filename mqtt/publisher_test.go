package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/wnelis/entsoe-qdap-go/entsoe"
)

func TestBuildPayload(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	points := []entsoe.PricePoint{
		{Time: start, Price: 50.12, Currency: "EUR", Unit: "EUR/MWh"},
		{Time: start.Add(time.Hour), Price: 48.90, Currency: "EUR", Unit: "EUR/MWh"},
	}
	now := time.Date(2025, time.January, 1, 13, 0, 0, 0, time.UTC)

	payload := buildPayload(entsoe.ZoneNL, points, now)

	if payload.Zone != "NL" {
		t.Errorf("expected zone NL, got %q", payload.Zone)
	}
	if payload.Currency != "EUR" || payload.Unit != "EUR/MWh" {
		t.Errorf("unexpected currency/unit: %q %q", payload.Currency, payload.Unit)
	}
	if !payload.UpdatedAt.Equal(now) {
		t.Errorf("expected updated_at %s, got %s", now, payload.UpdatedAt)
	}
	if len(payload.Prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(payload.Prices))
	}
	if payload.Prices[1].Price != 48.90 {
		t.Errorf("unexpected second price %v", payload.Prices[1].Price)
	}

	// The payload goes out as JSON; make sure the wire keys stay stable.
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshaling payload: %v", err)
	}
	for _, key := range []string{"zone", "currency", "unit", "updated_at", "prices"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload is missing key %q", key)
		}
	}
}

func TestBuildPayloadEmpty(t *testing.T) {
	payload := buildPayload(entsoe.ZoneNL, nil, time.Now())
	if len(payload.Prices) != 0 {
		t.Errorf("expected empty prices, got %d", len(payload.Prices))
	}
	if payload.Currency != "" {
		t.Errorf("expected empty currency, got %q", payload.Currency)
	}
}
