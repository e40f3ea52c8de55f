// Package entsoe is a minimal client for day-ahead electricity prices from
// the ENTSO-E transparency platform. It implements a single query against
// the REST API, small enough to run on resource-constrained hardware
// without pulling in a general-purpose client library.
package entsoe

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://web-api.tp.entsoe.eu/api"

	documentTypePriceDocument = "A44"
	processTypeDayAhead       = "A01"
	curveTypeSequential       = "A01"

	// periodStart/periodEnd format required by the API, always UTC.
	periodLayout = "200601021504"
)

// Resolutions come as ISO-8601 durations like PT60M or PT15M.
var resolutionFormat = regexp.MustCompile(`^PT(\d+)([SMH])$`)

var resolutionUnits = map[string]time.Duration{
	"S": time.Second,
	"M": time.Minute,
	"H": time.Hour,
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.http.Timeout = timeout }
}

// New creates a client using the security token handed out by the platform
// after registration. The token is only validated when a query is made.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DayAheadPrices fetches the published prices for one bidding zone over
// [start, end). It issues exactly one GET request, no retries and no
// caching. The result is ordered by ascending interval start; when the
// market has not published the full interval yet the sequence is shorter,
// missing points are never fabricated.
func (c *Client) DayAheadPrices(ctx context.Context, zone Zone, start, end time.Time) ([]PricePoint, error) {
	if c.apiKey == "" {
		return nil, &ValidationError{Reason: "empty api key"}
	}
	if !zone.IsValid() {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown bidding zone %q", string(zone))}
	}
	if !start.Before(end) {
		return nil, &ValidationError{Reason: fmt.Sprintf("start %s is not before end %s", start, end)}
	}

	query := url.Values{}
	query.Set("documentType", documentTypePriceDocument)
	query.Set("processType", processTypeDayAhead)
	query.Set("in_Domain", string(zone))
	query.Set("out_Domain", string(zone))
	query.Set("periodStart", start.UTC().Format(periodLayout))
	query.Set("periodEnd", end.UTC().Format(periodLayout))
	query.Set("securityToken", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		if ack, ok := parseAcknowledgement(body); ok {
			return nil, ack
		}
		return nil, &UpstreamError{Reason: fmt.Sprintf("unexpected status code %d", resp.StatusCode)}
	}

	return parsePriceDocument(body)
}

// TodayPrices fetches the prices for the current day, local midnight to
// local midnight.
func (c *Client) TodayPrices(ctx context.Context, zone Zone) ([]PricePoint, error) {
	start := midnight(time.Now())
	return c.DayAheadPrices(ctx, zone, start, start.AddDate(0, 0, 1))
}

// TomorrowPrices fetches the day-ahead prices for the next day, local
// midnight to local midnight. The market usually publishes them in the
// early afternoon.
func (c *Client) TomorrowPrices(ctx context.Context, zone Zone) ([]PricePoint, error) {
	start := midnight(time.Now()).AddDate(0, 0, 1)
	return c.DayAheadPrices(ctx, zone, start, start.AddDate(0, 0, 1))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseAcknowledgement reports whether the body is an in-band error
// document and, if so, returns the upstream reason.
func parseAcknowledgement(body []byte) (*UpstreamError, bool) {
	var ack acknowledgementDocument
	if err := xml.Unmarshal(body, &ack); err != nil {
		return nil, false
	}
	reason := strings.TrimSpace(ack.Reason.Text)
	if reason == "" {
		reason = "unspecified upstream error"
	}
	return &UpstreamError{Code: ack.Reason.Code, Reason: reason}, true
}

func parsePriceDocument(body []byte) ([]PricePoint, error) {
	var doc publicationDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		if ack, ok := parseAcknowledgement(body); ok {
			return nil, ack
		}
		return nil, &ParseError{Reason: "not a publication document", Err: err}
	}
	if doc.Type != documentTypePriceDocument {
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected document type %q", doc.Type)}
	}

	var points []PricePoint
	for _, series := range doc.TimeSeries {
		if series.CurveType != curveTypeSequential {
			return nil, &ParseError{Reason: fmt.Sprintf("unsupported curve type %q", series.CurveType)}
		}
		unit := normalizeUnit(series.Currency, series.MeasureUnit)
		for _, p := range series.Periods {
			begin, err := parseIntervalTime(p.TimeInterval.Start)
			if err != nil {
				return nil, &ParseError{Reason: "bad period start", Err: err}
			}
			resolution, err := parseResolution(p.Resolution)
			if err != nil {
				return nil, err
			}
			for _, pt := range p.Points {
				if pt.Position < 1 {
					return nil, &ParseError{Reason: fmt.Sprintf("bad point position %d", pt.Position)}
				}
				points = append(points, PricePoint{
					Time:     begin.Add(time.Duration(pt.Position-1) * resolution),
					Price:    pt.Price,
					Currency: series.Currency,
					Unit:     unit,
				})
			}
		}
	}

	// A response may carry one series per day; merge them into a single
	// ascending curve and drop duplicate intervals.
	slices.SortFunc(points, func(a, b PricePoint) int { return a.Time.Compare(b.Time) })
	points = slices.CompactFunc(points, func(a, b PricePoint) bool { return a.Time.Equal(b.Time) })

	return points, nil
}

// normalizeUnit builds a unit string like "EUR/MWh" from the currency and
// measure unit fields (the platform reports the latter as "MWH").
func normalizeUnit(currency, measureUnit string) string {
	unit := currency + "/" + measureUnit
	if strings.HasSuffix(unit, "WH") {
		unit = strings.TrimSuffix(unit, "H") + "h"
	}
	return unit
}

func parseResolution(str string) (time.Duration, error) {
	m := resolutionFormat.FindStringSubmatch(str)
	if m == nil {
		return 0, &ParseError{Reason: fmt.Sprintf("unrecognised resolution %q", str)}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &ParseError{Reason: fmt.Sprintf("unrecognised resolution %q", str), Err: err}
	}
	return time.Duration(n) * resolutionUnits[m[2]], nil
}

func parseIntervalTime(str string) (time.Time, error) {
	// The platform writes interval bounds as "2006-01-02T15:04Z", but be
	// lenient and accept full RFC 3339 too.
	t, err := time.Parse("2006-01-02T15:04Z07:00", str)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
