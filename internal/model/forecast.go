package model

import "time"

// ForecastPoint is one row of a forecast: the prediction, its uncertainty
// interval and the additive components it was composed from.
type ForecastPoint struct {
	Date      time.Time `json:"ds"`
	Predicted float64   `json:"yhat"`
	Lower     float64   `json:"yhat_lower"`
	Upper     float64   `json:"yhat_upper"`
	Trend     float64   `json:"trend"`
	Weekly    float64   `json:"weekly"`
	Yearly    float64   `json:"yearly"`
}

// ForecastSeries spans the fitted history followed by HorizonDays future days.
type ForecastSeries struct {
	Symbol      string          `json:"symbol"`
	HorizonDays int             `json:"horizon_days"`
	HistoryLen  int             `json:"history_len"`
	Points      []ForecastPoint `json:"points"`
	// Actuals holds the observed values for the first HistoryLen points.
	Actuals []float64 `json:"actuals"`
}

// Len returns the number of points, zero for a nil series.
func (f *ForecastSeries) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Points)
}

// Tail returns the last n points.
func (f *ForecastSeries) Tail(n int) []ForecastPoint {
	if f == nil || n <= 0 {
		return nil
	}
	if n > len(f.Points) {
		n = len(f.Points)
	}
	return f.Points[len(f.Points)-n:]
}

// Future returns the points after the fitted history.
func (f *ForecastSeries) Future() []ForecastPoint {
	if f == nil || f.HistoryLen >= len(f.Points) {
		return nil
	}
	return f.Points[f.HistoryLen:]
}
