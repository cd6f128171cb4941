package forecast

import (
	"context"
	"time"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"
)

// MockEngine is a deterministic engine for development and testing.
// It predicts the historical mean with a band of two standard deviations
// and reports no seasonality.
type MockEngine struct {
	// Fits counts the calls to Fit.
	Fits int
}

func (e *MockEngine) Name() string { return "mock" }

func (e *MockEngine) Fit(_ context.Context, history []Observation) (Model, error) {
	e.Fits++
	values := make([]float64, len(history))
	for i, o := range history {
		values[i] = o.Value
	}
	mean, err := calculator.Mean(values)
	if err != nil {
		return nil, ErrInsufficientHistory
	}
	std, _ := calculator.StdDev(values)
	return &mockModel{history: history, mean: mean, std: std}, nil
}

type mockModel struct {
	history []Observation
	mean    float64
	std     float64
}

func (m *mockModel) MakeFutureDataframe(periods int) []time.Time {
	return FutureDates(m.history, periods)
}

func (m *mockModel) Predict(_ context.Context, dates []time.Time) ([]model.ForecastPoint, error) {
	points := make([]model.ForecastPoint, len(dates))
	for i, d := range dates {
		points[i] = model.ForecastPoint{
			Date:      d,
			Predicted: m.mean,
			Lower:     m.mean - 2*m.std,
			Upper:     m.mean + 2*m.std,
			Trend:     m.mean,
		}
	}
	return points, nil
}
