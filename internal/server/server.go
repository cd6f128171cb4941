// Package server exposes a dashboard session over HTTP.
package server

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"MarketLens/internal/dashboard"
	"MarketLens/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

// Server serves the dashboard page, its charts and a JSON view of the session.
type Server struct {
	Session *dashboard.Session
	Symbols []string

	engine *gin.Engine
}

// New builds the router. allowedOrigins configures CORS for the JSON endpoints.
func New(session *dashboard.Session, symbols, allowedOrigins []string) *Server {
	s := &Server{Session: session, Symbols: symbols}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(allowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templates, "templates/*.html")))

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	charts := r.Group("/charts")
	{
		charts.GET("/raw", s.rawChart)
		charts.GET("/forecast", s.forecastChart)
		charts.GET("/components", s.componentsChart)
	}

	api := r.Group("/api")
	{
		api.GET("/symbols", s.symbols)
		api.GET("/view", s.view)
		api.GET("/status", s.status)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// defaultSelection is the selection shown before the user has chosen anything.
func (s *Server) defaultSelection() model.SelectionState {
	sel := model.SelectionState{HorizonYears: model.MinHorizonYears, Granularity: model.Weekly}
	if len(s.Symbols) > 0 {
		sel.Symbol = s.Symbols[0]
	}
	return sel
}

// baseSelection is the session's current selection, or the default one.
func (s *Server) baseSelection() model.SelectionState {
	if v, ok := s.Session.Current(); ok {
		return v.Selection
	}
	return s.defaultSelection()
}

// selectionFromQuery overlays the query parameters on base. A request without
// parameters keeps base; otherwise an absent checkbox means off.
func selectionFromQuery(c *gin.Context, base model.SelectionState) model.SelectionState {
	if len(c.Request.URL.Query()) == 0 {
		return base
	}
	sel := base
	sel.Symbol = c.DefaultQuery("symbol", base.Symbol)
	if y, err := strconv.Atoi(c.Query("years")); err == nil {
		sel.HorizonYears = y
	}
	if g, ok := model.ParseGranularity(c.Query("granularity")); ok {
		sel.Granularity = g
	}
	sel.ShowRawTable = checked(c.Query("raw"))
	sel.ShowForecastTable = checked(c.Query("forecast_table"))
	return sel
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

// current returns the session view, running the default selection first if nothing has run yet.
func (s *Server) current(c *gin.Context) dashboard.View {
	if v, ok := s.Session.Current(); ok {
		return v
	}
	return s.Session.Apply(c.Request.Context(), s.defaultSelection())
}
