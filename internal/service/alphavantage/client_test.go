package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FXCast/internal/domain/models"
)

const sampleSeries = `{
	"Meta Data": {"1. Information": "FX Intraday (1min) Time Series"},
	"Time Series FX (1min)": {
		"2024-03-01 10:01:00": {"1. open": "150.10", "2. high": "150.20", "3. low": "150.00", "4. close": "150.15"},
		"2024-03-01 10:00:00": {"1. open": "150.00", "2. high": "150.12", "3. low": "149.95", "4. close": "150.10"}
	}
}`

func TestFetchIntraday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "FX_INTRADAY" {
			t.Errorf("function = %q", q.Get("function"))
		}
		if q.Get("from_symbol") != "USD" || q.Get("to_symbol") != "JPY" {
			t.Errorf("pair = %s/%s", q.Get("from_symbol"), q.Get("to_symbol"))
		}
		if q.Get("interval") != "1min" {
			t.Errorf("interval = %q", q.Get("interval"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q", q.Get("apikey"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSeries))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "1min", 5*time.Second)
	bars, err := c.FetchIntraday(context.Background(), "USDJPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Fatalf("bars not in ascending order: %v then %v", bars[0].Timestamp, bars[1].Timestamp)
	}
	first := bars[0]
	if first.Symbol != "USDJPY" {
		t.Fatalf("symbol = %q", first.Symbol)
	}
	if first.Open != 150.00 || first.High != 150.12 || first.Low != 149.95 || first.Close != 150.10 {
		t.Fatalf("unexpected OHLC: %+v", first)
	}
	if first.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", first.Timestamp)
	}
}

func TestFetchIntradayErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, "1min", 5*time.Second)
	if _, err := c.FetchIntraday(context.Background(), "USDJPY"); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("want ErrNoData, got %v", err)
	}
}

func TestFetchIntradayRateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage!"}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, "1min", 5*time.Second)
	if _, err := c.FetchIntraday(context.Background(), "USDJPY"); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("want ErrNoData, got %v", err)
	}
}

func TestFetchIntradayMissingSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Meta Data": {}}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, "1min", 5*time.Second)
	if _, err := c.FetchIntraday(context.Background(), "USDJPY"); !errors.Is(err, models.ErrNoData) {
		t.Fatalf("want ErrNoData, got %v", err)
	}
}

func TestFetchIntradayShortSymbol(t *testing.T) {
	c := NewClient("k", "http://unused", "1min", 5*time.Second)
	if _, err := c.FetchIntraday(context.Background(), "USD"); err == nil {
		t.Fatalf("expected error for short symbol")
	}
}

func TestDemoSourceDeterministic(t *testing.T) {
	a, err := NewDemoSource(50, 7).FetchIntraday(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewDemoSource(50, 7).FetchIntraday(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("got %d / %d bars, want 50", len(a), len(b))
	}
	for i := range a {
		if a[i].Close != b[i].Close {
			t.Fatalf("same seed diverged at bar %d: %v vs %v", i, a[i].Close, b[i].Close)
		}
	}
	for i := range a {
		if a[i].High < a[i].Low || a[i].High < a[i].Close || a[i].Low > a[i].Open {
			t.Fatalf("inconsistent OHLC at bar %d: %+v", i, a[i])
		}
	}
}
