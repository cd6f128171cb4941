package chart

import (
	"fmt"
	"sort"
	"time"

	"MarketLens/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Forecast plots the observed values, the prediction and its uncertainty bounds.
// When the lower bound never goes negative the interval is shaded by stacking its
// width on the lower bound; ECharts stacks negative values separately, so the
// shading is left out otherwise.
func Forecast(fs *model.ForecastSeries) *charts.Line {
	n := fs.Len()
	dates := make([]time.Time, n)
	actual := make([]opts.LineData, n)
	predicted := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	spread := make([]float64, n)
	shade := true
	for i, p := range fs.Points {
		dates[i] = p.Date
		predicted[i] = p.Predicted
		lower[i] = p.Lower
		upper[i] = p.Upper
		spread[i] = p.Upper - p.Lower
		if p.Lower < 0 || spread[i] < 0 {
			shade = false
		}
		if i < len(fs.Actuals) && i < fs.HistoryLen {
			actual[i] = opts.LineData{Value: fs.Actuals[i]}
		} else {
			actual[i] = opts.LineData{Value: "-"}
		}
	}

	title := "Forecast"
	subtitle := fmt.Sprintf("%s, %d days ahead", fs.Symbol, fs.HorizonDays)
	line := withZoom(newLine(title, subtitle))
	line.SetXAxis(dateLabels(dates)).
		AddSeries("actual", actual).
		AddSeries("yhat", lineData(predicted))

	bound := charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Type: "dashed"})
	if shade {
		line.AddSeries("yhat_lower", lineData(lower),
			charts.WithLineChartOpts(opts.LineChart{Stack: "band"}),
			bound,
		).AddSeries("interval", lineData(spread),
			charts.WithLineChartOpts(opts.LineChart{Stack: "band"}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: 1, Opacity: 0.1}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.25}),
		)
	} else {
		line.AddSeries("yhat_lower", lineData(lower), bound)
	}
	line.AddSeries("yhat_upper", lineData(upper), bound)
	return line
}

// Components returns one panel per additive component: trend over time,
// the weekly pattern by weekday and the yearly pattern by calendar day.
func Components(fs *model.ForecastSeries) *components.Page {
	page := components.NewPage()
	page.AddCharts(trendPanel(fs), weeklyPanel(fs), yearlyPanel(fs))
	return page
}

func trendPanel(fs *model.ForecastSeries) *charts.Line {
	dates := make([]time.Time, fs.Len())
	trend := make([]float64, fs.Len())
	for i, p := range fs.Points {
		dates[i], trend[i] = p.Date, p.Trend
	}
	line := withZoom(newLine("trend", fs.Symbol))
	line.SetXAxis(dateLabels(dates)).AddSeries("trend", lineData(trend))
	return line
}

func weeklyPanel(fs *model.ForecastSeries) *charts.Line {
	var sum [7]float64
	var count [7]int
	for _, p := range fs.Points {
		wd := p.Date.Weekday()
		sum[wd] += p.Weekly
		count[wd]++
	}
	labels := make([]string, 7)
	values := make([]float64, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		labels[wd] = wd.String()
		if count[wd] > 0 {
			values[wd] = sum[wd] / float64(count[wd])
		}
	}
	line := newLine("weekly", "Day of week")
	line.SetXAxis(labels).AddSeries("weekly", lineData(values))
	return line
}

// yearlyPanel keys the yearly component by month and day; February 29 is folded away.
func yearlyPanel(fs *model.ForecastSeries) *charts.Line {
	type monthDay struct {
		m time.Month
		d int
	}
	byDay := make(map[monthDay]float64)
	for _, p := range fs.Points {
		if p.Date.Month() == time.February && p.Date.Day() == 29 {
			continue
		}
		byDay[monthDay{p.Date.Month(), p.Date.Day()}] = p.Yearly
	}
	keys := make([]monthDay, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].m != keys[j].m {
			return keys[i].m < keys[j].m
		}
		return keys[i].d < keys[j].d
	})
	labels := make([]string, len(keys))
	values := make([]float64, len(keys))
	for i, k := range keys {
		labels[i] = fmt.Sprintf("%s %02d", k.m.String()[:3], k.d)
		values[i] = byDay[k]
	}
	line := newLine("yearly", "Day of year")
	line.SetXAxis(labels).AddSeries("yearly", lineData(values))
	return line
}
