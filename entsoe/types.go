package entsoe

import (
	"encoding/xml"
	"time"
)

// PricePoint is one published price for one delivery interval. The interval
// length depends on the market resolution (typically 15, 30 or 60 minutes).
type PricePoint struct {
	Time     time.Time // start of the delivery interval, UTC
	Price    float64
	Currency string // e.g. "EUR"
	Unit     string // e.g. "EUR/MWh"
}

// Wire format of a day-ahead price response, per the transparency platform
// "publication" document schema. Only the fields needed to reconstruct the
// price curve are mapped.
type publicationDocument struct {
	XMLName    xml.Name     `xml:"Publication_MarketDocument"`
	Type       string       `xml:"type"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	CurveType   string   `xml:"curveType"`
	Currency    string   `xml:"currency_Unit.name"`
	MeasureUnit string   `xml:"price_Measure_Unit.name"`
	Periods     []period `xml:"Period"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Price    float64 `xml:"price.amount"`
}

// The platform reports errors in-band with this document, often with
// HTTP status 200.
type acknowledgementDocument struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	Reason  struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}
