// Package dashboard runs the dashboard pipeline for one interactive session and
// recomputes only the stages a selection change affects.
package dashboard

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"
)

// Loader returns the price history of a symbol.
type Loader interface {
	Load(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Forecaster predicts horizonDays beyond a price series.
type Forecaster interface {
	Run(ctx context.Context, series *model.PriceSeries, horizonDays int) (*model.ForecastSeries, error)
}

// Status is the binary progress indicator shown to the user.
type Status string

const (
	StatusLoading Status = "loading"
	StatusDone    Status = "done"
)

// View is the outcome of one pipeline run. A stage that failed carries its error
// and no output; the other stages are unaffected.
type View struct {
	Selection  model.SelectionState
	Status     Status
	Series     *model.PriceSeries
	Summary    calculator.Summary
	Volatility *model.VolatilityTable
	Forecast   *model.ForecastSeries
	// Ran lists the stages recomputed to produce this view.
	Ran Stage

	LoadErr       error
	StatsErr      error
	VolatilityErr error
	ForecastErr   error
}

// Session holds the selection and derived data of a dashboard session.
// Runs are serialized; Current may be called while a run is in progress.
type Session struct {
	Loader     Loader
	Forecaster Forecaster
	Symbols    []string

	runMu   sync.Mutex
	viewMu  sync.RWMutex
	view    View
	applied bool
	running atomic.Bool
}

// NewSession creates a session offering symbols.
func NewSession(loader Loader, forecaster Forecaster, symbols []string) *Session {
	return &Session{Loader: loader, Forecaster: forecaster, Symbols: symbols}
}

// Status reports whether a run is in progress.
func (s *Session) Status() Status {
	if s.running.Load() {
		return StatusLoading
	}
	return StatusDone
}

// Current returns the last computed view and whether any run has completed.
func (s *Session) Current() (View, bool) {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	v := s.view
	v.Status = s.Status()
	return v, s.applied
}

// Apply moves the session to next and recomputes the stages the change affects.
// Stage failures are recorded in the returned view; Apply never fails.
func (s *Session) Apply(ctx context.Context, next model.SelectionState) View {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	next = next.Normalize(s.Symbols)

	s.viewMu.RLock()
	v := s.view
	applied := s.applied
	s.viewMu.RUnlock()

	var prev *model.SelectionState
	if applied {
		prev = &v.Selection
	}
	stages := Plan(prev, next)
	// A failed load is retried on the next interaction.
	if applied && v.Series == nil {
		stages = StageAll
	}
	v.Selection = next
	v.Ran = stages
	if stages != StageNone {
		log.Printf("[INFO] %s: recomputing %s", next.Symbol, stages)
	}

	s.running.Store(true)
	defer s.running.Store(false)

	if stages.Has(StageLoad) {
		v.Series, v.LoadErr = s.Loader.Load(ctx, next.Symbol)
		if v.LoadErr != nil {
			v.Series = nil
			log.Printf("[WARN] load %s: %v", next.Symbol, v.LoadErr)
		}
	}
	if stages.Has(StageStats) {
		v.Summary, v.StatsErr = calculator.Summarize(v.Series)
	}
	if stages.Has(StageVolatility) {
		s.runVolatility(&v)
	}
	if stages.Has(StageForecast) {
		s.runForecast(ctx, &v)
	}

	v.Status = StatusDone
	s.viewMu.Lock()
	s.view = v
	s.applied = true
	s.viewMu.Unlock()
	return v
}

func (s *Session) runVolatility(v *View) {
	if v.Series == nil {
		v.Volatility, v.VolatilityErr = nil, v.LoadErr
		return
	}
	v.Volatility, v.VolatilityErr = calculator.PeriodicVolatility(v.Series, v.Selection.Granularity)
	if v.VolatilityErr != nil {
		log.Printf("[WARN] volatility %s: %v", v.Selection.Symbol, v.VolatilityErr)
	}
}

func (s *Session) runForecast(ctx context.Context, v *View) {
	if v.Series == nil {
		v.Forecast, v.ForecastErr = nil, v.LoadErr
		return
	}
	v.Forecast, v.ForecastErr = s.Forecaster.Run(ctx, v.Series, v.Selection.HorizonDays())
	if v.ForecastErr != nil {
		v.Forecast = nil
		log.Printf("[WARN] forecast %s: %v", v.Selection.Symbol, v.ForecastErr)
	}
}
