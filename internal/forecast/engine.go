// Package forecast fits an additive trend and seasonality model to a price series
// and extrapolates it. The model itself lives behind Engine.
package forecast

import (
	"context"
	"errors"
	"time"

	"MarketLens/internal/model"
)

// ErrInsufficientHistory is returned when a series is too short to fit a model.
var ErrInsufficientHistory = errors.New("insufficient history")

// MinObservations is the fewest observations a model can be fitted on.
const MinObservations = 2

// Observation is one (ds, y) training row.
type Observation struct {
	Date  time.Time
	Value float64
}

// Engine fits models. Implementations must be deterministic for identical input.
type Engine interface {
	Fit(ctx context.Context, history []Observation) (Model, error)
	Name() string
}

// Model is a fitted model.
type Model interface {
	// MakeFutureDataframe returns the history dates followed by periods daily dates.
	MakeFutureDataframe(periods int) []time.Time
	// Predict returns one point per date, in order.
	Predict(ctx context.Context, dates []time.Time) ([]model.ForecastPoint, error)
}

// FutureDates returns the dates of history followed by periods consecutive
// calendar days after the last one.
func FutureDates(history []Observation, periods int) []time.Time {
	if periods < 0 {
		periods = 0
	}
	dates := make([]time.Time, 0, len(history)+periods)
	for _, o := range history {
		dates = append(dates, o.Date)
	}
	if len(history) == 0 {
		return dates
	}
	last := history[len(history)-1].Date
	for i := 1; i <= periods; i++ {
		dates = append(dates, last.AddDate(0, 0, i))
	}
	return dates
}
