package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/dashboard"
	"MarketLens/internal/forecast"
)

var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML configuration file")

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// app holds the collaborators shared by the subcommands.
type app struct {
	cfg     *config.Config
	loader  *collector.Loader
	session *dashboard.Session
}

func newApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.BaseURL {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		fetcher = yf
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// "today" is fixed for the process lifetime
	loader := collector.NewLoader(fetcher, start, time.Now())

	// Init forecast engine
	var engine forecast.Engine
	switch cfg.Forecast.Engine {
	case config.EngineMock:
		engine = &forecast.MockEngine{}
	default:
		engine = forecast.NewHTTPEngine(cfg.Forecast.EngineURL, cfg.Proxy, cfg.Forecast.Timeout)
	}
	log.Printf("[INFO] forecast engine: %s", engine.Name())

	session := dashboard.NewSession(loader, forecast.NewForecaster(engine), cfg.DataSource.Symbols)
	return &app{cfg: cfg, loader: loader, session: session}, nil
}
