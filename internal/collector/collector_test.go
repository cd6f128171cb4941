package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MarketLens/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestLoader(f Fetcher) *Loader {
	return NewLoader(f, day("2020-01-01"), day("2020-03-31"))
}

func TestLoad_MemoizesPerSymbol(t *testing.T) {
	f := &MockFetcher{Price: 100}
	l := newTestLoader(f)

	first, err := l.Load(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := l.Load(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first != second {
		t.Error("expected the cached series on reload")
	}
	if f.Calls() != 1 {
		t.Errorf("expected 1 fetch, got %d", f.Calls())
	}

	if _, err := l.Load(context.Background(), "MSFT"); err != nil {
		t.Fatalf("load other symbol: %v", err)
	}
	if f.Calls() != 2 {
		t.Errorf("switching symbols should fetch again, got %d fetches", f.Calls())
	}
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	f := &MockFetcher{Price: 100, Delay: 50 * time.Millisecond}
	l := newTestLoader(f)

	const callers = 8
	results := make([]*model.PriceSeries, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := l.Load(context.Background(), "BTC-USD")
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	if f.Calls() != 1 {
		t.Errorf("expected a single in-flight fetch, got %d", f.Calls())
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Errorf("caller %d received a different series", i)
		}
	}
}

func TestLoad_CancelledCallerDoesNotAbortSharedFetch(t *testing.T) {
	f := &MockFetcher{Price: 100, Delay: 200 * time.Millisecond}
	l := newTestLoader(f)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := l.Load(ctxA, "AAPL")
		errA <- err
	}()
	for f.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		s   *model.PriceSeries
		err error
	}
	resB := make(chan result, 1)
	go func() {
		s, err := l.Load(context.Background(), "AAPL")
		resB <- result{s, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancelA()

	if err := <-errA; !errors.Is(err, context.Canceled) || !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("cancelled caller: got %v", err)
	}
	b := <-resB
	if b.err != nil {
		t.Fatalf("other caller failed: %v", b.err)
	}
	if b.s.Len() == 0 {
		t.Error("other caller got an empty series")
	}
	if f.Calls() != 1 {
		t.Errorf("expected a single fetch, got %d", f.Calls())
	}
	if _, ok := l.Cached("AAPL"); !ok {
		t.Error("shared fetch result should be cached")
	}
}

func TestLoad_EmptyResponseIsDataUnavailable(t *testing.T) {
	f := &MockFetcher{Bars: map[string][]model.PriceBar{"FB": {}}}
	l := newTestLoader(f)

	_, err := l.Load(context.Background(), "FB")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if _, ok := l.Cached("FB"); ok {
		t.Error("failed loads must not be cached")
	}
}

func TestLoad_FetchErrorIsDataUnavailableAndRetried(t *testing.T) {
	upstream := errors.New("connection reset")
	f := &MockFetcher{Price: 10, Errs: map[string]error{"TSLA": upstream}}
	l := newTestLoader(f)

	_, err := l.Load(context.Background(), "TSLA")
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped ErrDataUnavailable and upstream error, got %v", err)
	}

	delete(f.Errs, "TSLA")
	if _, err := l.Load(context.Background(), "TSLA"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if f.Calls() != 2 {
		t.Errorf("expected 2 fetches, got %d", f.Calls())
	}
}

func TestLoad_RejectsDuplicateDates(t *testing.T) {
	bars := []model.PriceBar{
		{Date: day("2020-01-02"), Close: 1, AdjClose: 1},
		{Date: day("2020-01-02"), Close: 2, AdjClose: 2},
	}
	l := newTestLoader(&MockFetcher{Bars: map[string][]model.PriceBar{"NVDA": bars}})
	if _, err := l.Load(context.Background(), "NVDA"); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for duplicate dates, got %v", err)
	}
}

func TestMockFetcher_SkipsWeekends(t *testing.T) {
	f := &MockFetcher{Price: 50}
	bars, err := f.FetchDailyBars(context.Background(), "X", day("2024-01-01"), day("2024-01-14"))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 10 {
		t.Fatalf("expected 10 weekdays, got %d", len(bars))
	}
	for _, b := range bars {
		if wd := b.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("unexpected weekend bar %s", b.Date.Format(model.DateLayout))
		}
	}
}
