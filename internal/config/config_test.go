package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"MarketLens/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.DataSource.StartDate != "2010-01-01" {
		t.Errorf("defaults: %+v", cfg)
	}
	if !slices.Equal(cfg.DataSource.Symbols, model.DefaultSymbols) {
		t.Errorf("symbols = %v", cfg.DataSource.Symbols)
	}
	if cfg.Forecast.Engine != EngineMock || cfg.Forecast.Timeout != 120*time.Second {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
data_source:
  start_date: "2015-06-01"
  symbols: [AAPL, MSFT]
forecast:
  engine: mock
  timeout: 30s
prefetch:
  cron: "0 0 6 * * *"
`)
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("PREFETCH_ON_START", "true")
	t.Setenv("FORECAST_TIMEOUT", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %s", cfg.Server.Addr)
	}
	if cfg.DataSource.StartDate != "2015-06-01" || !slices.Equal(cfg.DataSource.Symbols, []string{"AAPL", "MSFT"}) {
		t.Errorf("data source = %+v", cfg.DataSource)
	}
	if cfg.Forecast.Engine != EngineMock || cfg.Forecast.Timeout != 45*time.Second {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if cfg.Prefetch.Cron != "0 0 6 * * *" || !cfg.Prefetch.OnStart {
		t.Errorf("prefetch = %+v", cfg.Prefetch)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad start date", func(c *Config) { c.DataSource.StartDate = "01/01/2010" }},
		{"future start date", func(c *Config) { c.DataSource.StartDate = "2999-01-01" }},
		{"duplicate symbol", func(c *Config) { c.DataSource.Symbols = []string{"AAPL", "AAPL"} }},
		{"empty symbol", func(c *Config) { c.DataSource.Symbols = []string{""} }},
		{"unknown engine", func(c *Config) { c.Forecast.Engine = "arima" }},
		{"http engine without url", func(c *Config) {
			c.Forecast.Engine = EngineHTTP
			c.Forecast.EngineURL = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
