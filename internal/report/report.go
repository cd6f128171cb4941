// Package report renders a dashboard view as markdown, for the terminal and the web page.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"MarketLens/internal/calculator"
	"MarketLens/internal/collector"
	"MarketLens/internal/dashboard"
	"MarketLens/internal/forecast"
	"MarketLens/internal/model"

	"github.com/Rhymond/go-money"
	"github.com/guregu/null/v6"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// TailRows is the number of rows shown by the raw and forecast tables.
const TailRows = 5

// Section identifiers.
const (
	SectionRaw        = "raw"
	SectionStats      = "stats"
	SectionVolatility = "volatility"
	SectionForecast   = "forecast"
)

// Section is one titled block of the report.
type Section struct {
	ID       string
	Markdown string
}

// Sections renders every block of v in display order.
func Sections(v *dashboard.View) []Section {
	return []Section{
		{ID: SectionRaw, Markdown: RawData(v)},
		{ID: SectionStats, Markdown: Statistics(v)},
		{ID: SectionVolatility, Markdown: Volatility(v)},
		{ID: SectionForecast, Markdown: ForecastData(v)},
	}
}

// Markdown renders the whole report as one document.
func Markdown(v *dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s dashboard", v.Selection.Symbol))
	parts := []string{doc.String()}
	for _, s := range Sections(v) {
		parts = append(parts, s.Markdown)
	}
	return strings.Join(parts, "\n")
}

// USD formats v as a dollar amount, e.g. $1,234.50.
func USD(v float64) string {
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func price(v float64) string {
	return strconv.FormatFloat(calculator.Round2(v), 'f', 2, 64)
}

func nullPrice(v null.Float) string {
	if !v.Valid {
		return "NaN"
	}
	return price(v.Float64)
}

// failure describes why a stage produced nothing.
func failure(symbol string, err error) string {
	switch {
	case errors.Is(err, collector.ErrDataUnavailable):
		return fmt.Sprintf("No price data is available for %s: %v", symbol, err)
	case errors.Is(err, forecast.ErrInsufficientHistory):
		return fmt.Sprintf("Not enough history to forecast %s: %v", symbol, err)
	default:
		return fmt.Sprintf("Failed for %s: %v", symbol, err)
	}
}

// RawData describes the loaded history, with its last rows when the raw table is on.
func RawData(v *dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Raw data")
	if v.LoadErr != nil {
		doc.PlainText(failure(v.Selection.Symbol, v.LoadErr))
		return doc.String()
	}
	s := v.Series
	if s.Len() == 0 {
		doc.PlainText("No price data.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("%d daily bars from %s to %s.", s.Len(),
		s.Bars[0].Date.Format(model.DateLayout), s.Bars[s.Len()-1].Date.Format(model.DateLayout)))
	if v.Selection.ShowRawTable {
		rows := make([][]string, 0, TailRows)
		for _, b := range s.Tail(TailRows) {
			rows = append(rows, []string{
				b.Date.Format(model.DateLayout),
				price(b.Open), price(b.High), price(b.Low), price(b.Close), price(b.AdjClose),
				strconv.FormatInt(b.Volume, 10),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"},
			Rows:   rows,
		})
	}
	return doc.String()
}

// Statistics lists the headline statistics of the adjusted close.
func Statistics(v *dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Statistics")
	sym := v.Selection.Symbol
	s := v.Summary

	growth := "undefined"
	if s.Growth.Valid {
		growth = strconv.FormatFloat(s.Growth.Float64, 'f', 2, 64)
	}
	dollars := func(f null.Float) string {
		if !f.Valid {
			return "undefined"
		}
		return USD(f.Float64)
	}
	doc.BulletList(
		fmt.Sprintf("The price of %s increased by %s times", sym, growth),
		fmt.Sprintf("Historical minimum of %s: %s", sym, dollars(s.Min)),
		fmt.Sprintf("Historical maximum of %s: %s", sym, dollars(s.Max)),
		fmt.Sprintf("Historical standard deviation of %s: %s", sym, dollars(s.StdDev)),
	)
	return doc.String()
}

// Volatility tabulates the per-period standard deviations.
func Volatility(v *dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(fmt.Sprintf("%s volatility", v.Selection.Granularity))
	if v.VolatilityErr != nil {
		doc.PlainText(failure(v.Selection.Symbol, v.VolatilityErr))
		return doc.String()
	}
	if v.Volatility == nil || len(v.Volatility.Rows) == 0 {
		doc.PlainText("No periods to show.")
		return doc.String()
	}
	doc.PlainText("Standard deviation of each price field within the period. NaN marks periods with a single trading day.")
	rows := make([][]string, 0, len(v.Volatility.Rows))
	for _, r := range v.Volatility.Rows {
		rows = append(rows, []string{
			r.Start.Format(model.DateLayout),
			r.End.Format(model.DateLayout),
			strconv.Itoa(r.Count),
			nullPrice(r.Open), nullPrice(r.Close), nullPrice(r.High), nullPrice(r.Low),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Start", "End", "Days", "Open", "Close", "High", "Low"},
		Rows:   rows,
	})
	return doc.String()
}

// ForecastData describes the forecast, with its last rows when the forecast table is on.
func ForecastData(v *dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Forecast data")
	if v.ForecastErr != nil {
		doc.PlainText(failure(v.Selection.Symbol, v.ForecastErr))
		return doc.String()
	}
	fs := v.Forecast
	if fs == nil {
		return doc.String()
	}
	years := v.Selection.HorizonYears
	unit := "years"
	if years == 1 {
		unit = "year"
	}
	doc.PlainText(fmt.Sprintf("Forecast of %s for %d %s (%d days) beyond %d trading days of history.",
		fs.Symbol, years, unit, fs.HorizonDays, fs.HistoryLen))
	if v.Selection.ShowForecastTable {
		rows := make([][]string, 0, TailRows)
		for _, p := range fs.Tail(TailRows) {
			rows = append(rows, []string{
				p.Date.Format(model.DateLayout),
				price(p.Predicted), price(p.Lower), price(p.Upper), price(p.Trend),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"ds", "yhat", "yhat_lower", "yhat_upper", "trend"},
			Rows:   rows,
		})
	}
	return doc.String()
}
