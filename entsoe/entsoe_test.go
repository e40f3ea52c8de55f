package entsoe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const hourlyFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
  <type>A44</type>
  <TimeSeries>
    <curveType>A01</curveType>
    <currency_Unit.name>EUR</currency_Unit.name>
    <price_Measure_Unit.name>MWH</price_Measure_Unit.name>
    <Period>
      <timeInterval>
        <start>2025-01-01T00:00Z</start>
        <end>2025-01-01T06:00Z</end>
      </timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>50.12</price.amount></Point>
      <Point><position>2</position><price.amount>48.90</price.amount></Point>
      <Point><position>3</position><price.amount>47.01</price.amount></Point>
      <Point><position>4</position><price.amount>-1.45</price.amount></Point>
      <Point><position>5</position><price.amount>0</price.amount></Point>
      <Point><position>6</position><price.amount>102.34</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

const multiSeriesFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
  <type>A44</type>
  <TimeSeries>
    <curveType>A01</curveType>
    <currency_Unit.name>EUR</currency_Unit.name>
    <price_Measure_Unit.name>MWH</price_Measure_Unit.name>
    <Period>
      <timeInterval>
        <start>2025-01-02T00:00Z</start>
        <end>2025-01-02T00:30Z</end>
      </timeInterval>
      <resolution>PT15M</resolution>
      <Point><position>1</position><price.amount>30.00</price.amount></Point>
      <Point><position>2</position><price.amount>31.00</price.amount></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <curveType>A01</curveType>
    <currency_Unit.name>EUR</currency_Unit.name>
    <price_Measure_Unit.name>MWH</price_Measure_Unit.name>
    <Period>
      <timeInterval>
        <start>2025-01-01T23:30Z</start>
        <end>2025-01-02T00:15Z</end>
      </timeInterval>
      <resolution>PT15M</resolution>
      <Point><position>1</position><price.amount>28.00</price.amount></Point>
      <Point><position>2</position><price.amount>29.00</price.amount></Point>
      <Point><position>3</position><price.amount>30.00</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

const noDataFixture = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:8:1">
  <Reason>
    <code>999</code>
    <text>No matching data found for Data item Day-ahead Prices [12.1.D]</text>
  </Reason>
</Acknowledgement_MarketDocument>`

var (
	fixtureStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	fixtureEnd   = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-token", WithBaseURL(srv.URL))
}

func TestDayAheadPricesRequestParameters(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(hourlyFixture))
	})

	if _, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]string{
		"documentType":  "A44",
		"processType":   "A01",
		"in_Domain":     "10YNL----------L",
		"out_Domain":    "10YNL----------L",
		"periodStart":   "202501010000",
		"periodEnd":     "202501020000",
		"securityToken": "test-token",
	}
	for key, want := range expected {
		got := query[key]
		if len(got) != 1 || got[0] != want {
			t.Errorf("query parameter %s: expected %q, got %v", key, want, got)
		}
	}
}

func TestDayAheadPricesHourlyFixture(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(hourlyFixture))
	})

	points, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPrices := []float64{50.12, 48.90, 47.01, -1.45, 0, 102.34}
	if len(points) != len(expectedPrices) {
		t.Fatalf("expected %d points, got %d", len(expectedPrices), len(points))
	}

	for i, p := range points {
		expectedTime := fixtureStart.Add(time.Duration(i) * time.Hour)
		if !p.Time.Equal(expectedTime) {
			t.Errorf("point %d: expected time %s, got %s", i, expectedTime, p.Time)
		}
		if p.Price != expectedPrices[i] {
			t.Errorf("point %d: expected price %v, got %v", i, expectedPrices[i], p.Price)
		}
		if p.Currency != "EUR" {
			t.Errorf("point %d: expected currency EUR, got %q", i, p.Currency)
		}
		if p.Unit != "EUR/MWh" {
			t.Errorf("point %d: expected unit EUR/MWh, got %q", i, p.Unit)
		}
		if p.Time.Before(fixtureStart) || !p.Time.Before(fixtureEnd) {
			t.Errorf("point %d: time %s outside queried interval", i, p.Time)
		}
	}
}

func TestDayAheadPricesMergesAndOrdersSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(multiSeriesFixture))
	})

	start := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	points, err := client.DayAheadPrices(context.Background(), ZoneNL, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two quarter-hour series overlap on one interval, so five distinct
	// intervals remain after the merge.
	if len(points) != 5 {
		t.Fatalf("expected 5 points after merge, got %d", len(points))
	}
	for i, p := range points {
		expectedTime := start.Add(time.Duration(i) * 15 * time.Minute)
		if !p.Time.Equal(expectedTime) {
			t.Errorf("point %d: expected time %s, got %s", i, expectedTime, p.Time)
		}
	}
}

func TestDayAheadPricesNoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The platform answers "no data" with status 200.
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(noDataFixture))
	})

	_, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Code != "999" {
		t.Errorf("expected reason code 999, got %q", upstreamErr.Code)
	}
	if upstreamErr.Reason != "No matching data found for Data item Day-ahead Prices [12.1.D]" {
		t.Errorf("unexpected reason text: %q", upstreamErr.Reason)
	}
}

func TestDayAheadPricesUpstreamStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(noDataFixture))
	})

	_, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestDayAheadPricesMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not xml", body: "this is not xml"},
		{name: "unexpected root", body: "<foo><bar/></foo>"},
		{name: "wrong document type", body: `<Publication_MarketDocument><type>A65</type></Publication_MarketDocument>`},
		{name: "unsupported curve type", body: `<Publication_MarketDocument><type>A44</type><TimeSeries><curveType>A03</curveType></TimeSeries></Publication_MarketDocument>`},
		{name: "bad resolution", body: `<Publication_MarketDocument><type>A44</type><TimeSeries><curveType>A01</curveType><Period><timeInterval><start>2025-01-01T00:00Z</start><end>2025-01-02T00:00Z</end></timeInterval><resolution>P1D</resolution></Period></TimeSeries></Publication_MarketDocument>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/xml")
				w.Write([]byte(tt.body))
			})

			_, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd)

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("transport should not be used")
}

func TestDayAheadPricesValidation(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		zone   Zone
		start  time.Time
		end    time.Time
	}{
		{name: "start equals end", apiKey: "key", zone: ZoneNL, start: fixtureStart, end: fixtureStart},
		{name: "start after end", apiKey: "key", zone: ZoneNL, start: fixtureEnd, end: fixtureStart},
		{name: "unknown zone", apiKey: "key", zone: Zone("bogus"), start: fixtureStart, end: fixtureEnd},
		{name: "empty api key", apiKey: "", zone: ZoneNL, start: fixtureStart, end: fixtureEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &countingTransport{}
			client := New(tt.apiKey, WithHTTPClient(&http.Client{Transport: transport}))

			_, err := client.DayAheadPrices(context.Background(), tt.zone, tt.start, tt.end)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if transport.calls != 0 {
				t.Errorf("expected no network calls, got %d", transport.calls)
			}
		})
	}
}

func TestDayAheadPricesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Connection to a closed server must surface as TransportError.

	client := New("test-token", WithBaseURL(srv.URL))
	points, err := client.DayAheadPrices(context.Background(), ZoneNL, fixtureStart, fixtureEnd)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if points != nil {
		t.Errorf("expected no partial result, got %d points", len(points))
	}
}

func TestDayAheadPricesTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.DayAheadPrices(ctx, ZoneNL, fixtureStart, fixtureEnd)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{input: "PT60M", expected: time.Hour},
		{input: "PT30M", expected: 30 * time.Minute},
		{input: "PT15M", expected: 15 * time.Minute},
		{input: "PT1H", expected: time.Hour},
		{input: "PT1S", expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := parseResolution(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, d)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	if unit := normalizeUnit("EUR", "MWH"); unit != "EUR/MWh" {
		t.Errorf("expected EUR/MWh, got %q", unit)
	}
	if unit := normalizeUnit("EUR", "KWH"); unit != "EUR/KWh" {
		t.Errorf("expected EUR/KWh, got %q", unit)
	}
}
