package dashboard

import (
	"testing"

	"MarketLens/internal/model"
)

func TestPlan(t *testing.T) {
	base := model.SelectionState{Symbol: "AAPL", HorizonYears: 1, Granularity: model.Weekly}

	with := func(f func(*model.SelectionState)) model.SelectionState {
		s := base
		f(&s)
		return s
	}

	tests := []struct {
		name string
		prev *model.SelectionState
		next model.SelectionState
		want Stage
	}{
		{"first run", nil, base, StageAll},
		{"unchanged", &base, base, StageNone},
		{"symbol", &base, with(func(s *model.SelectionState) { s.Symbol = "MSFT" }), StageAll},
		{"horizon", &base, with(func(s *model.SelectionState) { s.HorizonYears = 3 }), StageForecast},
		{"granularity", &base, with(func(s *model.SelectionState) { s.Granularity = model.Monthly }), StageVolatility},
		{"horizon and granularity", &base, with(func(s *model.SelectionState) {
			s.HorizonYears = 2
			s.Granularity = model.Annually
		}), StageVolatility | StageForecast},
		{"raw table toggle", &base, with(func(s *model.SelectionState) { s.ShowRawTable = true }), StageNone},
		{"forecast table toggle", &base, with(func(s *model.SelectionState) { s.ShowForecastTable = true }), StageNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plan(tt.prev, tt.next); got != tt.want {
				t.Errorf("Plan = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStage_String(t *testing.T) {
	if got := StageNone.String(); got != "none" {
		t.Errorf("got %q", got)
	}
	if got := (StageLoad | StageForecast).String(); got != "load+forecast" {
		t.Errorf("got %q", got)
	}
	if got := StageAll.String(); got != "load+stats+volatility+forecast" {
		t.Errorf("got %q", got)
	}
}
