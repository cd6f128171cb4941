package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketLens/internal/model"
)

// HTTPEngine fits models on a remote forecasting service.
//
// The service exposes two endpoints:
//
//	POST /api/v1/fit      {"history":[{"ds":"2006-01-02","y":1.0}]}  -> {"model_id":"..."}
//	POST /api/v1/predict  {"model_id":"...","ds":["2006-01-02"]}    -> {"forecast":[row...]}
//
// A 422 from fit means the history is too short for the model.
type HTTPEngine struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPEngine creates an engine client with optional proxy support.
func NewHTTPEngine(baseURL, proxyURL string, timeout time.Duration) *HTTPEngine {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPEngine{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (e *HTTPEngine) Name() string { return "http" }

type wireObservation struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type fitRequest struct {
	History []wireObservation `json:"history"`
}

type fitResponse struct {
	ModelID string `json:"model_id"`
}

type predictRequest struct {
	ModelID string   `json:"model_id"`
	DS      []string `json:"ds"`
}

type wireForecast struct {
	DS        string  `json:"ds"`
	YHat      float64 `json:"yhat"`
	YHatLower float64 `json:"yhat_lower"`
	YHatUpper float64 `json:"yhat_upper"`
	Trend     float64 `json:"trend"`
	Weekly    float64 `json:"weekly"`
	Yearly    float64 `json:"yearly"`
}

type predictResponse struct {
	Forecast []wireForecast `json:"forecast"`
}

func (e *HTTPEngine) Fit(ctx context.Context, history []Observation) (Model, error) {
	req := fitRequest{History: make([]wireObservation, len(history))}
	for i, o := range history {
		req.History[i] = wireObservation{DS: o.Date.Format(model.DateLayout), Y: o.Value}
	}
	var resp fitResponse
	if err := e.post(ctx, "/api/v1/fit", req, &resp); err != nil {
		return nil, err
	}
	if resp.ModelID == "" {
		return nil, fmt.Errorf("fit: empty model id")
	}
	return &httpModel{engine: e, id: resp.ModelID, history: history}, nil
}

type httpModel struct {
	engine  *HTTPEngine
	id      string
	history []Observation
}

func (m *httpModel) MakeFutureDataframe(periods int) []time.Time {
	return FutureDates(m.history, periods)
}

func (m *httpModel) Predict(ctx context.Context, dates []time.Time) ([]model.ForecastPoint, error) {
	req := predictRequest{ModelID: m.id, DS: make([]string, len(dates))}
	for i, d := range dates {
		req.DS[i] = d.Format(model.DateLayout)
	}
	var resp predictResponse
	if err := m.engine.post(ctx, "/api/v1/predict", req, &resp); err != nil {
		return nil, err
	}
	points := make([]model.ForecastPoint, len(resp.Forecast))
	for i, row := range resp.Forecast {
		d, err := time.Parse(model.DateLayout, row.DS)
		if err != nil {
			return nil, fmt.Errorf("predict row %d: %w", i, err)
		}
		points[i] = model.ForecastPoint{
			Date:      d,
			Predicted: row.YHat,
			Lower:     row.YHatLower,
			Upper:     row.YHatUpper,
			Trend:     row.Trend,
			Weekly:    row.Weekly,
			Yearly:    row.Yearly,
		}
	}
	return points, nil
}

func (e *HTTPEngine) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("forecast engine %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", ErrInsufficientHistory, strings.TrimSpace(string(msg)))
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("forecast engine %s: status %d, body: %s", path, resp.StatusCode, string(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
