package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketLens/internal/scheduler"
	"MarketLens/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

type serveCmd struct {
	release bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the dashboard web server" }
func (*serveCmd) Usage() string {
	return `marketlens serve [-release]

  Serves the dashboard on server.addr until SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.release, "release", false, "Run gin in release mode.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] MarketLens starting...")
	if c.release {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, a.loader, a.cfg.DataSource.Symbols)
	if a.cfg.Prefetch.Cron != "" {
		if err := sched.RegisterPrefetch(a.cfg.Prefetch.Cron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	if a.cfg.Prefetch.OnStart {
		log.Println("[INFO] prefetch.on_start enabled, warming the cache now")
		go sched.PrefetchNow()
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           server.New(a.session, a.cfg.DataSource.Symbols, a.cfg.Server.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Println("[INFO] MarketLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Fatalf("[FATAL] listen: %v", err)
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	log.Println("[INFO] MarketLens stopped")
	return subcommands.ExitSuccess
}
