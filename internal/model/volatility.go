package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// VolatilityRow holds the per-column standard deviation of one calendar bucket.
// A column is invalid when the bucket has fewer than two bars.
type VolatilityRow struct {
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Count int        `json:"count"`
	Open  null.Float `json:"open"`
	Close null.Float `json:"close"`
	High  null.Float `json:"high"`
	Low   null.Float `json:"low"`
}

// VolatilityTable is the periodic volatility of a series at one granularity.
type VolatilityTable struct {
	Granularity Granularity     `json:"granularity"`
	Rows        []VolatilityRow `json:"rows"`
}
