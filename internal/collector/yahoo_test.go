package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketLens/internal/model"
)

// 2020-01-02 and 2020-01-03 14:30 UTC, with a repeated last bar and a null bar.
const yahooBody = `{"chart":{"result":[{
  "meta":{"gmtoffset":-18000},
  "timestamp":[1577975400,1578061800,1578061900,1578148200],
  "indicators":{
    "quote":[{"open":[100,101,102,null],"high":[105,106,107,null],"low":[99,100,101,null],"close":[104,105,106,null],"volume":[1000,2000,3000,null]}],
    "adjclose":[{"adjclose":[103.5,104.5,105.5,null]}]
  }}],"error":null}}`

func newYahooServer(t *testing.T, status int, body string) (*YahooFetcher, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f, &got
}

func TestYahooFetcher_DecodesDailyBars(t *testing.T) {
	f, req := newYahooServer(t, http.StatusOK, yahooBody)

	bars, err := f.FetchDailyBars(context.Background(), "BTC-USD", day("2020-01-01"), day("2020-01-10"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.HasSuffix(req.URL.Path, "/v8/finance/chart/BTC-USD") {
		t.Errorf("unexpected path %s", req.URL.Path)
	}
	if req.URL.Query().Get("interval") != "1d" {
		t.Errorf("expected daily interval, got %q", req.URL.Query().Get("interval"))
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars after dedupe and null skipping, got %d", len(bars))
	}
	if got := bars[0].Date.Format(model.DateLayout); got != "2020-01-02" {
		t.Errorf("first date = %s", got)
	}
	last := bars[1]
	if last.Date.Format(model.DateLayout) != "2020-01-03" || last.Close != 106 || last.AdjClose != 105.5 || last.Volume != 3000 {
		t.Errorf("duplicate date should keep the last bar, got %+v", last)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"malformed", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newYahooServer(t, tt.status, tt.body)
			if _, err := f.FetchDailyBars(context.Background(), "FB", day("2020-01-01"), day("2020-01-10")); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestYahooFetcher_NullAdjCloseFallsBackToClose(t *testing.T) {
	body := `{"chart":{"result":[{
  "meta":{"gmtoffset":-18000},
  "timestamp":[1577975400,1578061800],
  "indicators":{
    "quote":[{"open":[100,101],"high":[105,106],"low":[99,100],"close":[104,105],"volume":[1000,2000]}],
    "adjclose":[{"adjclose":[103.5,null]}]
  }}],"error":null}}`
	f, _ := newYahooServer(t, http.StatusOK, body)

	bars, err := f.FetchDailyBars(context.Background(), "AAPL", day("2020-01-01"), day("2020-01-10"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].AdjClose != 103.5 {
		t.Errorf("first adj close = %v", bars[0].AdjClose)
	}
	if bars[1].AdjClose != 105 {
		t.Errorf("null adj close should fall back to close 105, got %v", bars[1].AdjClose)
	}
}
