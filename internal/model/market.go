package model

import "time"

// PriceBar represents a single daily bar.
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// PriceSeries holds the daily history of one symbol, oldest bar first.
// A loaded series is shared through the loader cache and must not be modified.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Len returns the number of bars, zero for a nil series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Tail returns the last n bars.
func (s *PriceSeries) Tail(n int) []PriceBar {
	if s == nil || n <= 0 {
		return nil
	}
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	return s.Bars[len(s.Bars)-n:]
}

// Dates returns the date column.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, s.Len())
	for i := range dates {
		dates[i] = s.Bars[i].Date
	}
	return dates
}

// AdjCloses returns the adjusted close column.
func (s *PriceSeries) AdjCloses() []float64 {
	values := make([]float64, s.Len())
	for i := range values {
		values[i] = s.Bars[i].AdjClose
	}
	return values
}

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	values := make([]float64, s.Len())
	for i := range values {
		values[i] = s.Bars[i].Close
	}
	return values
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the calendar date format used on every wire and in reports.
const DateLayout = "2006-01-02"
