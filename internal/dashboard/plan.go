package dashboard

import (
	"strings"

	"MarketLens/internal/model"
)

// Stage is a set of pipeline stages.
type Stage uint8

const (
	StageLoad Stage = 1 << iota
	StageStats
	StageVolatility
	StageForecast
)

const (
	StageNone Stage = 0
	StageAll        = StageLoad | StageStats | StageVolatility | StageForecast
)

// Has reports whether every stage of o is in s.
func (s Stage) Has(o Stage) bool { return s&o == o }

func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	var names []string
	for _, st := range []struct {
		stage Stage
		name  string
	}{
		{StageLoad, "load"},
		{StageStats, "stats"},
		{StageVolatility, "volatility"},
		{StageForecast, "forecast"},
	} {
		if s.Has(st.stage) {
			names = append(names, st.name)
		}
	}
	return strings.Join(names, "+")
}

// Plan returns the stages to recompute when the selection moves from prev to next.
// A nil prev means nothing has been computed yet. Display toggles never trigger work.
func Plan(prev *model.SelectionState, next model.SelectionState) Stage {
	if prev == nil || prev.Symbol != next.Symbol {
		return StageAll
	}
	stages := StageNone
	if prev.Granularity != next.Granularity {
		stages |= StageVolatility
	}
	if prev.HorizonYears != next.HorizonYears {
		stages |= StageForecast
	}
	return stages
}
