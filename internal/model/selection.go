package model

import (
	"slices"
	"strings"
)

// DefaultSymbols is the instrument list offered when the configuration does not override it.
var DefaultSymbols = []string{"AAPL", "MSFT", "TSLA", "AMZN", "NVDA", "FB", "BTC-USD", "ETH-USD", "USDT-USD"}

const (
	MinHorizonYears = 1
	MaxHorizonYears = 3
	// DaysPerYear deliberately ignores leap years.
	DaysPerYear = 365
)

// HorizonDays converts a horizon in years to calendar days.
func HorizonDays(years int) int {
	return years * DaysPerYear
}

// Granularity is the calendar bucket size of the periodic volatility table.
type Granularity string

const (
	Weekly    Granularity = "Weekly"
	Monthly   Granularity = "Monthly"
	Quarterly Granularity = "Quarterly"
	Annually  Granularity = "Annually"
)

// Granularities lists the choices from finest to coarsest.
var Granularities = []Granularity{Weekly, Monthly, Quarterly, Annually}

// ParseGranularity matches s case-insensitively, returning false when nothing matches.
func ParseGranularity(s string) (Granularity, bool) {
	for _, g := range Granularities {
		if strings.EqualFold(string(g), strings.TrimSpace(s)) {
			return g, true
		}
	}
	return "", false
}

// SelectionState is everything the user controls.
type SelectionState struct {
	Symbol            string      `json:"symbol"`
	HorizonYears      int         `json:"horizon_years"`
	ShowRawTable      bool        `json:"show_raw_table"`
	ShowForecastTable bool        `json:"show_forecast_table"`
	Granularity       Granularity `json:"granularity"`
}

// HorizonDays returns the forecast horizon in days.
func (s SelectionState) HorizonDays() int {
	return HorizonDays(s.HorizonYears)
}

// Normalize maps s onto the nearest legal selection for the given symbol list:
// unknown symbols fall back to the first one, the horizon is clamped and an
// unknown granularity becomes Weekly.
func (s SelectionState) Normalize(symbols []string) SelectionState {
	if len(symbols) > 0 && !slices.Contains(symbols, s.Symbol) {
		s.Symbol = symbols[0]
	}
	if s.HorizonYears < MinHorizonYears {
		s.HorizonYears = MinHorizonYears
	}
	if s.HorizonYears > MaxHorizonYears {
		s.HorizonYears = MaxHorizonYears
	}
	if g, ok := ParseGranularity(string(s.Granularity)); ok {
		s.Granularity = g
	} else {
		s.Granularity = Weekly
	}
	return s
}
