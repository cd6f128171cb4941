package calculator

import (
	"testing"
	"time"

	"MarketLens/internal/model"
)

// weekdays returns one bar per weekday from start for n calendar days, rising by 1 per bar.
func weekdays(start string, n int) *model.PriceSeries {
	d, _ := time.Parse(model.DateLayout, start)
	s := &model.PriceSeries{Symbol: "TEST"}
	p := 100.0
	for i := 0; i < n; i++ {
		day := d.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		s.Bars = append(s.Bars, model.PriceBar{Date: day, Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, AdjClose: p + 0.5})
		p++
	}
	return s
}

func TestPeriodicVolatility_WeeklyBuckets(t *testing.T) {
	// 2024-01-01 is a Monday.
	table, err := PeriodicVolatility(weekdays("2024-01-01", 14), model.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 weekly rows, got %d", len(table.Rows))
	}
	first := table.Rows[0]
	if first.Start.Format(model.DateLayout) != "2024-01-01" || first.End.Format(model.DateLayout) != "2024-01-07" {
		t.Errorf("unexpected bucket bounds %s..%s", first.Start.Format(model.DateLayout), first.End.Format(model.DateLayout))
	}
	if first.Count != 5 {
		t.Errorf("expected 5 bars in the first week, got %d", first.Count)
	}
	// Opens 100..104: population std is sqrt(2).
	if !first.Open.Valid || first.Open.Float64 < 1.414 || first.Open.Float64 > 1.415 {
		t.Errorf("unexpected open std %+v", first.Open)
	}
}

func TestPeriodicVolatility_SingleBarBucketIsMissing(t *testing.T) {
	// Friday 2024-01-05 alone in its week, then a full week.
	s := weekdays("2024-01-05", 10)
	table, err := PeriodicVolatility(s, model.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	row := table.Rows[0]
	if row.Count != 1 {
		t.Fatalf("expected a single bar in the first bucket, got %d", row.Count)
	}
	if row.Open.Valid || row.Close.Valid || row.High.Valid || row.Low.Valid {
		t.Errorf("single-bar bucket must have missing values, got %+v", row)
	}
	if !table.Rows[1].Close.Valid {
		t.Error("full bucket should have a value")
	}
}

func TestPeriodicVolatility_CalendarBoundaries(t *testing.T) {
	s := weekdays("2023-11-15", 120)
	tests := []struct {
		g         model.Granularity
		firstEnd  string
		firstFrom string
	}{
		{model.Monthly, "2023-11-30", "2023-11-01"},
		{model.Quarterly, "2023-12-31", "2023-10-01"},
		{model.Annually, "2023-12-31", "2023-01-01"},
	}
	for _, tt := range tests {
		table, err := PeriodicVolatility(s, tt.g)
		if err != nil {
			t.Fatal(err)
		}
		r := table.Rows[0]
		if r.End.Format(model.DateLayout) != tt.firstEnd || r.Start.Format(model.DateLayout) != tt.firstFrom {
			t.Errorf("%s: first bucket %s..%s, want %s..%s", tt.g,
				r.Start.Format(model.DateLayout), r.End.Format(model.DateLayout), tt.firstFrom, tt.firstEnd)
		}
		for i := 1; i < len(table.Rows); i++ {
			if !table.Rows[i].Start.After(table.Rows[i-1].End) {
				t.Errorf("%s: rows %d and %d overlap or are out of order", tt.g, i-1, i)
			}
		}
	}
}

func TestPeriodicVolatility_RowCountNonIncreasing(t *testing.T) {
	s := weekdays("2019-03-07", 1000)
	prev := -1
	for _, g := range model.Granularities {
		table, err := PeriodicVolatility(s, g)
		if err != nil {
			t.Fatal(err)
		}
		total := 0
		for _, r := range table.Rows {
			total += r.Count
		}
		if total != len(s.Bars) {
			t.Errorf("%s: buckets hold %d bars, want %d", g, total, len(s.Bars))
		}
		if prev >= 0 && len(table.Rows) > prev {
			t.Errorf("%s has %d rows, more than the finer granularity's %d", g, len(table.Rows), prev)
		}
		prev = len(table.Rows)
	}
}

func TestPeriodicVolatility_EmptySeries(t *testing.T) {
	table, err := PeriodicVolatility(nil, model.Monthly)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(table.Rows))
	}
}
