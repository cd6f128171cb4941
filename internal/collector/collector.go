package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"MarketLens/internal/model"

	"golang.org/x/sync/singleflight"
)

// ErrDataUnavailable is returned when the provider has no usable history for a symbol.
var ErrDataUnavailable = errors.New("data unavailable")

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars overrides the generated bars per symbol.
	Bars map[string][]model.PriceBar
	// Errs makes FetchDailyBars fail for the given symbols.
	Errs  map[string]error
	Delay time.Duration

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars has been invoked.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	m.calls.Add(1)
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

func generateMockBars(basePrice float64, start, end time.Time) []model.PriceBar {
	var bars []model.PriceBar
	i := 0
	for d := model.Day(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.PriceBar{
			Date:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}

// Loader fetches price history and memoizes it per symbol for the lifetime of the process.
// The cache is never invalidated. Concurrent loads of an uncached symbol share one fetch.
type Loader struct {
	Fetcher Fetcher
	Start   time.Time
	End     time.Time

	mu     sync.RWMutex
	cache  map[string]*model.PriceSeries
	flight singleflight.Group
}

// NewLoader creates a Loader covering [start, end]. end is fixed for the loader's lifetime.
func NewLoader(fetcher Fetcher, start, end time.Time) *Loader {
	return &Loader{
		Fetcher: fetcher,
		Start:   start,
		End:     end,
		cache:   make(map[string]*model.PriceSeries),
	}
}

// Cached returns the memoized series for symbol, if any.
func (l *Loader) Cached(symbol string) (*model.PriceSeries, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.cache[symbol]
	return s, ok
}

// Load returns the price history of symbol, fetching it on first use.
// Failures are not cached so that a later call fetches again. A cancelled ctx
// returns early without aborting the fetch other callers are waiting on.
func (l *Loader) Load(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	if s, ok := l.Cached(symbol); ok {
		return s, nil
	}
	// The shared fetch outlives any single caller; the client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.flight.DoChan(symbol, func() (interface{}, error) {
		if s, ok := l.Cached(symbol); ok {
			return s, nil
		}
		log.Printf("[INFO] loading %s from %s (%s to %s)", symbol, l.Fetcher.Name(),
			l.Start.Format(model.DateLayout), l.End.Format(model.DateLayout))
		bars, err := l.Fetcher.FetchDailyBars(fetchCtx, symbol, l.Start, l.End)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, symbol, err)
		}
		if err := validateBars(bars); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, symbol, err)
		}
		s := &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
		l.mu.Lock()
		l.cache[symbol] = s
		l.mu.Unlock()
		log.Printf("[INFO] loaded %d bars for %s", len(bars), symbol)
		return s, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, symbol, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.PriceSeries), nil
	}
}

func validateBars(bars []model.PriceBar) error {
	if len(bars) == 0 {
		return errors.New("empty response")
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("dates not strictly increasing at %s", bars[i].Date.Format(model.DateLayout))
		}
	}
	return nil
}
