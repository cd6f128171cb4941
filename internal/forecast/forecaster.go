package forecast

import (
	"context"
	"fmt"
	"log"
	"time"

	"MarketLens/internal/model"
)

// Forecaster runs an Engine over price series.
type Forecaster struct {
	Engine Engine
}

// NewForecaster creates a Forecaster backed by engine.
func NewForecaster(engine Engine) *Forecaster {
	return &Forecaster{Engine: engine}
}

// Run fits the close prices of series and predicts horizonDays beyond the last bar.
// The result covers the whole history plus the horizon.
func (f *Forecaster) Run(ctx context.Context, series *model.PriceSeries, horizonDays int) (*model.ForecastSeries, error) {
	if series.Len() < MinObservations {
		return nil, fmt.Errorf("%w: %d observations, need at least %d", ErrInsufficientHistory, series.Len(), MinObservations)
	}

	history := make([]Observation, len(series.Bars))
	actuals := make([]float64, len(series.Bars))
	for i, b := range series.Bars {
		history[i] = Observation{Date: b.Date, Value: b.Close}
		actuals[i] = b.Close
	}

	started := time.Now()
	m, err := f.Engine.Fit(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", series.Symbol, err)
	}
	dates := m.MakeFutureDataframe(horizonDays)
	points, err := m.Predict(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", series.Symbol, err)
	}
	if len(points) != len(dates) {
		return nil, fmt.Errorf("predict %s: engine returned %d rows for %d dates", series.Symbol, len(points), len(dates))
	}
	log.Printf("[INFO] forecast %s: %d history + %d days via %s in %v",
		series.Symbol, len(history), horizonDays, f.Engine.Name(), time.Since(started).Round(time.Millisecond))

	return &model.ForecastSeries{
		Symbol:      series.Symbol,
		HorizonDays: horizonDays,
		HistoryLen:  len(history),
		Points:      points,
		Actuals:     actuals,
	}, nil
}
