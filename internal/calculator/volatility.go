package calculator

import (
	"fmt"
	"time"

	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
)

// bucketEnd returns the last calendar day of the bucket containing d.
// Weeks are ISO weeks ending on Sunday.
func bucketEnd(d time.Time, g model.Granularity) (time.Time, error) {
	d = model.Day(d)
	switch g {
	case model.Weekly:
		offset := (7 - int(d.Weekday())) % 7
		return d.AddDate(0, 0, offset), nil
	case model.Monthly:
		return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC), nil
	case model.Quarterly:
		lastMonth := ((d.Month()-1)/3 + 1) * 3
		return time.Date(d.Year(), lastMonth+1, 0, 0, 0, 0, 0, time.UTC), nil
	case model.Annually:
		return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unknown granularity %q", g)
}

// bucketStart returns the first calendar day of the bucket ending on end.
func bucketStart(end time.Time, g model.Granularity) time.Time {
	switch g {
	case model.Weekly:
		return end.AddDate(0, 0, -6)
	case model.Monthly:
		return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	case model.Quarterly:
		return time.Date(end.Year(), end.Month()-2, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// PeriodicVolatility partitions the bars into calendar buckets of granularity g and
// returns the population standard deviation of open, close, high and low per bucket.
// Buckets without bars are omitted; buckets with a single bar have invalid columns.
func PeriodicVolatility(series *model.PriceSeries, g model.Granularity) (*model.VolatilityTable, error) {
	table := &model.VolatilityTable{Granularity: g}
	if series.Len() == 0 {
		return table, nil
	}

	var (
		end     time.Time
		members []model.PriceBar
	)
	flush := func() {
		if len(members) == 0 {
			return
		}
		table.Rows = append(table.Rows, volatilityRow(bucketStart(end, g), end, members))
		members = nil
	}
	for _, b := range series.Bars {
		e, err := bucketEnd(b.Date, g)
		if err != nil {
			return nil, err
		}
		if !e.Equal(end) {
			flush()
			end = e
		}
		members = append(members, b)
	}
	flush()
	return table, nil
}

func volatilityRow(start, end time.Time, bars []model.PriceBar) model.VolatilityRow {
	opens := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		opens[i], closes[i], highs[i], lows[i] = b.Open, b.Close, b.High, b.Low
	}
	return model.VolatilityRow{
		Start: start,
		End:   end,
		Count: len(bars),
		Open:  bucketStdDev(opens),
		Close: bucketStdDev(closes),
		High:  bucketStdDev(highs),
		Low:   bucketStdDev(lows),
	}
}

func bucketStdDev(values []float64) null.Float {
	if len(values) < 2 {
		return null.Float{}
	}
	std, err := StdDev(values)
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(std)
}
