package config

import (
	"fmt"
	"os"
	"time"

	"MarketLens/internal/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Forecast engine kinds.
const (
	EngineHTTP = "http"
	EngineMock = "mock"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	DataSource struct {
		// BaseURL overrides the Yahoo chart API endpoint; "mock" selects generated data.
		BaseURL   string   `yaml:"base_url"`
		StartDate string   `yaml:"start_date"`
		Symbols   []string `yaml:"symbols"`
	} `yaml:"data_source"`
	Forecast struct {
		Engine    string        `yaml:"engine"`
		EngineURL string        `yaml:"engine_url"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"forecast"`
	Prefetch struct {
		Cron    string `yaml:"cron"`
		OnStart bool   `yaml:"on_start"`
	} `yaml:"prefetch"`
	Proxy string `yaml:"proxy"`
}

// env lists the environment variable overrides. Unset variables leave the file value alone.
type env struct {
	ListenAddr        string        `envconfig:"LISTEN_ADDR"`
	StartDate         string        `envconfig:"START_DATE"`
	ForecastEngine    string        `envconfig:"FORECAST_ENGINE"`
	ForecastEngineURL string        `envconfig:"FORECAST_ENGINE_URL"`
	ForecastTimeout   time.Duration `envconfig:"FORECAST_TIMEOUT"`
	Proxy             string        `envconfig:"HTTPS_PROXY"`
	PrefetchCron      string        `envconfig:"PREFETCH_CRON"`
	PrefetchOnStart   *bool         `envconfig:"PREFETCH_ON_START"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// (including a .env file in the working directory, if present) and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.override(e)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) override(e env) {
	if e.ListenAddr != "" {
		c.Server.Addr = e.ListenAddr
	}
	if e.StartDate != "" {
		c.DataSource.StartDate = e.StartDate
	}
	if e.ForecastEngine != "" {
		c.Forecast.Engine = e.ForecastEngine
	}
	if e.ForecastEngineURL != "" {
		c.Forecast.EngineURL = e.ForecastEngineURL
	}
	if e.ForecastTimeout > 0 {
		c.Forecast.Timeout = e.ForecastTimeout
	}
	if e.Proxy != "" {
		c.Proxy = e.Proxy
	}
	if e.PrefetchCron != "" {
		c.Prefetch.Cron = e.PrefetchCron
	}
	if e.PrefetchOnStart != nil {
		c.Prefetch.OnStart = *e.PrefetchOnStart
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.DataSource.StartDate == "" {
		c.DataSource.StartDate = "2010-01-01"
	}
	if len(c.DataSource.Symbols) == 0 {
		c.DataSource.Symbols = append([]string(nil), model.DefaultSymbols...)
	}
	// The http engine needs a separately deployed Prophet service.
	if c.Forecast.Engine == "" {
		c.Forecast.Engine = EngineMock
	}
	if c.Forecast.EngineURL == "" {
		c.Forecast.EngineURL = "http://localhost:8001"
	}
	if c.Forecast.Timeout == 0 {
		c.Forecast.Timeout = 120 * time.Second
	}
}

// Start parses data_source.start_date.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse(model.DateLayout, c.DataSource.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("data_source.start_date: %w", err)
	}
	return t, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	start, err := c.Start()
	if err != nil {
		return err
	}
	if !start.Before(time.Now()) {
		return fmt.Errorf("data_source.start_date must be in the past")
	}
	seen := make(map[string]bool, len(c.DataSource.Symbols))
	for _, s := range c.DataSource.Symbols {
		if s == "" {
			return fmt.Errorf("data_source.symbols contains an empty symbol")
		}
		if seen[s] {
			return fmt.Errorf("data_source.symbols lists %s twice", s)
		}
		seen[s] = true
	}
	switch c.Forecast.Engine {
	case EngineHTTP:
		if c.Forecast.EngineURL == "" {
			return fmt.Errorf("forecast.engine_url is required for the http engine")
		}
	case EngineMock:
	default:
		return fmt.Errorf("forecast.engine must be %q or %q, got %q", EngineHTTP, EngineMock, c.Forecast.Engine)
	}
	if c.Forecast.Timeout < 0 {
		return fmt.Errorf("forecast.timeout must be positive")
	}
	return nil
}
