package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"MarketLens/internal/model"

	"github.com/robfig/cron/v3"
)

// Loader loads and memoizes the price history of a symbol.
type Loader interface {
	Load(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Scheduler warms the price cache on a cron schedule.
type Scheduler struct {
	Cron    *cron.Cron
	Loader  Loader
	Symbols []string
	Ctx     context.Context

	// running guards against overlapping prefetch rounds.
	running sync.Mutex
}

// NewScheduler creates a new Scheduler. Cron expressions include a seconds field.
func NewScheduler(ctx context.Context, loader Loader, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Loader:  loader,
		Symbols: symbols,
		Ctx:     ctx,
	}
}

// RegisterPrefetch schedules a prefetch round on expr.
func (s *Scheduler) RegisterPrefetch(expr string) error {
	if _, err := s.Cron.AddFunc(expr, func() { s.PrefetchNow() }); err != nil {
		return fmt.Errorf("register prefetch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running round to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// PrefetchNow loads every symbol once and returns how many are cached afterwards.
// A round that starts while another is running is skipped.
func (s *Scheduler) PrefetchNow() int {
	if !s.running.TryLock() {
		log.Println("[WARN] prefetch already running, skipping")
		return 0
	}
	defer s.running.Unlock()

	log.Printf("[INFO] prefetching %d symbols", len(s.Symbols))
	loaded := 0
	for _, sym := range s.Symbols {
		if err := s.Ctx.Err(); err != nil {
			log.Printf("[WARN] prefetch cancelled: %v", err)
			break
		}
		if _, err := s.Loader.Load(s.Ctx, sym); err != nil {
			log.Printf("[WARN] prefetch %s: %v", sym, err)
			continue
		}
		loaded++
	}
	log.Printf("[INFO] prefetch done: %d/%d symbols cached", loaded, len(s.Symbols))
	return loaded
}
