package server

import (
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"MarketLens/internal/calculator"
	"MarketLens/internal/chart"
	"MarketLens/internal/dashboard"
	"MarketLens/internal/model"
	"MarketLens/internal/report"

	"github.com/gin-gonic/gin"
)

type section struct {
	ID    string
	HTML  template.HTML
	Chart string
}

type page struct {
	View          dashboard.View
	Symbols       []string
	MinYears      int
	MaxYears      int
	Granularities []model.Granularity
	Sections      []section
	// Stamp busts the browser cache of the chart frames.
	Stamp int64
}

func (s *Server) index(c *gin.Context) {
	sel := selectionFromQuery(c, s.baseSelection())
	v := s.Session.Apply(c.Request.Context(), sel)

	p := page{
		View:          v,
		Symbols:       s.Symbols,
		Granularities: model.Granularities,
		MinYears:      model.MinHorizonYears,
		MaxYears:      model.MaxHorizonYears,
		Stamp:         time.Now().UnixNano(),
	}
	for _, sec := range report.Sections(&v) {
		html, err := report.HTML(sec.Markdown)
		if err != nil {
			log.Printf("[ERROR] render section %s: %v", sec.ID, err)
			c.String(http.StatusInternalServerError, "render failed")
			return
		}
		item := section{ID: sec.ID, HTML: html}
		switch {
		case sec.ID == report.SectionRaw && v.Series != nil:
			item.Chart = "/charts/raw"
		case sec.ID == report.SectionForecast && v.Forecast != nil:
			item.Chart = "/charts/forecast"
		}
		p.Sections = append(p.Sections, item)
		if sec.ID == report.SectionForecast && v.Forecast != nil {
			p.Sections = append(p.Sections, section{ID: "components", Chart: "/charts/components"})
		}
	}
	c.HTML(http.StatusOK, "index.html", p)
}

// renderer is implemented by every go-echarts chart and page.
type renderer interface {
	Render(w io.Writer) error
}

func renderChart(c *gin.Context, r renderer) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := r.Render(c.Writer); err != nil {
		log.Printf("[ERROR] render chart %s: %v", c.Request.URL.Path, err)
	}
}

func (s *Server) rawChart(c *gin.Context) {
	v := s.current(c)
	if v.Series == nil {
		c.String(http.StatusNotFound, "No price data for %s.", v.Selection.Symbol)
		return
	}
	renderChart(c, chart.RawPrices(v.Series))
}

func (s *Server) forecastChart(c *gin.Context) {
	v := s.current(c)
	if v.Forecast == nil {
		c.String(http.StatusNotFound, "No forecast for %s.", v.Selection.Symbol)
		return
	}
	renderChart(c, chart.Forecast(v.Forecast))
}

func (s *Server) componentsChart(c *gin.Context) {
	v := s.current(c)
	if v.Forecast == nil {
		c.String(http.StatusNotFound, "No forecast for %s.", v.Selection.Symbol)
		return
	}
	renderChart(c, chart.Components(v.Forecast))
}

// status never waits for a run, so the page can poll it while one is in progress.
func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": s.Session.Status()})
}

func (s *Server) symbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":          s.Symbols,
		"granularities": model.Granularities,
		"min_years":     model.MinHorizonYears,
		"max_years":     model.MaxHorizonYears,
	})
}

type historyJSON struct {
	Bars  int              `json:"bars"`
	First string           `json:"first"`
	Last  string           `json:"last"`
	Tail  []model.PriceBar `json:"tail"`
}

type viewJSON struct {
	Selection  model.SelectionState   `json:"selection"`
	Status     dashboard.Status       `json:"status"`
	Stages     string                 `json:"stages"`
	History    *historyJSON           `json:"history"`
	Summary    calculator.Summary     `json:"summary"`
	Volatility *model.VolatilityTable `json:"volatility"`
	Forecast   *model.ForecastSeries  `json:"forecast"`
	Errors     map[string]string      `json:"errors,omitempty"`
}

func (s *Server) view(c *gin.Context) {
	v := s.current(c)
	out := viewJSON{
		Selection:  v.Selection,
		Status:     s.Session.Status(),
		Stages:     v.Ran.String(),
		Summary:    v.Summary,
		Volatility: v.Volatility,
		Forecast:   v.Forecast,
	}
	if v.Series != nil {
		out.History = &historyJSON{
			Bars:  v.Series.Len(),
			First: v.Series.Bars[0].Date.Format(model.DateLayout),
			Last:  v.Series.Bars[v.Series.Len()-1].Date.Format(model.DateLayout),
			Tail:  v.Series.Tail(report.TailRows),
		}
	}
	for name, err := range map[string]error{
		"load":       v.LoadErr,
		"stats":      v.StatsErr,
		"volatility": v.VolatilityErr,
		"forecast":   v.ForecastErr,
	} {
		if err == nil {
			continue
		}
		if out.Errors == nil {
			out.Errors = make(map[string]string)
		}
		out.Errors[name] = err.Error()
	}
	c.JSON(http.StatusOK, out)
}
