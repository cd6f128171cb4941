// Package chart builds the dashboard's interactive charts. Charts are built from
// immutable inputs and are not modified after construction.
package chart

import (
	"time"

	"MarketLens/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	width  = "960px"
	height = "480px"
)

func dateLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format(model.DateLayout)
	}
	return labels
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// newLine returns a line chart with the shared look: axis tooltip, legend and title.
func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
	)
	return line
}

// withZoom adds a draggable range slider below the x axis.
func withZoom(line *charts.Line) *charts.Line {
	line.SetGlobalOptions(
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100, XAxisIndex: []int{0}},
			opts.DataZoom{Type: "inside", Start: 0, End: 100, XAxisIndex: []int{0}},
		),
	)
	return line
}

// RawPrices plots the open and close prices of series with a zoom slider.
func RawPrices(series *model.PriceSeries) *charts.Line {
	opens := make([]float64, series.Len())
	closes := make([]float64, series.Len())
	for i, b := range series.Bars {
		opens[i], closes[i] = b.Open, b.Close
	}
	line := withZoom(newLine("Time Series Stock Data with Rangeslider", series.Symbol))
	line.SetXAxis(dateLabels(series.Dates())).
		AddSeries("stock_open", lineData(opens)).
		AddSeries("stock_close", lineData(closes))
	return line
}
