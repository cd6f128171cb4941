package calculator

import (
	"errors"
	"math"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// ErrStatisticUndefined is returned when a statistic has no finite value for its input.
var ErrStatisticUndefined = errors.New("statistic undefined")

// Summary holds the headline statistics of a series' adjusted close, rounded to 2 decimals.
// Fields are invalid when undefined.
type Summary struct {
	Growth null.Float `json:"growth"`
	Min    null.Float `json:"min"`
	Max    null.Float `json:"max"`
	StdDev null.Float `json:"std_dev"`
}

// Round2 rounds v half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Min returns the smallest value.
func Min(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrStatisticUndefined
	}
	low := math.Inf(1)
	for _, v := range values {
		if v < low {
			low = v
		}
	}
	return low, nil
}

// Max returns the largest value.
func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrStatisticUndefined
	}
	high := math.Inf(-1)
	for _, v := range values {
		if v > high {
			high = v
		}
	}
	return high, nil
}

// Growth returns max/min, the number of times the price grew from its low to its high.
func Growth(values []float64) (float64, error) {
	low, err := Min(values)
	if err != nil {
		return 0, err
	}
	high, _ := Max(values)
	if low == 0 {
		return 0, ErrStatisticUndefined
	}
	return high / low, nil
}

// Mean returns the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrStatisticUndefined
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values))), nil
}

func rounded(v float64, err error) null.Float {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(Round2(v))
}

// Summarize computes the headline statistics of the adjusted close.
// The returned error wraps ErrStatisticUndefined when any field is undefined;
// the summary still carries every value that could be computed.
func Summarize(series *model.PriceSeries) (Summary, error) {
	values := series.AdjCloses()

	growth, growthErr := Growth(values)
	low, minErr := Min(values)
	high, maxErr := Max(values)
	std, stdErr := StdDev(values)

	s := Summary{
		Growth: rounded(growth, growthErr),
		Min:    rounded(low, minErr),
		Max:    rounded(high, maxErr),
		StdDev: rounded(std, stdErr),
	}
	if !s.Growth.Valid || !s.Min.Valid || !s.Max.Valid || !s.StdDev.Valid {
		return s, ErrStatisticUndefined
	}
	return s, nil
}
