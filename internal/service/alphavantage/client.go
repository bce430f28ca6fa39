package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
	xhttp "FXCast/pkg/http"
	applogger "FXCast/pkg/logger"
)

const tsLayout = "2006-01-02 15:04:05"

// Client fetches intraday FX bars from the Alpha Vantage REST API.
type Client struct {
	apiKey   string
	baseURL  string
	interval string
	client   *xhttp.Client
	l        *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// NewClient creates an Alpha Vantage client.
func NewClient(apiKey, baseURL, interval string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		interval: interval,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

var _ domrepo.BarSource = (*Client)(nil)

// FetchIntraday fetches the intraday FX series for a six-letter pair such
// as "USDJPY" and returns bars in ascending timestamp order.
func (c *Client) FetchIntraday(ctx context.Context, symbol string) ([]models.Bar, error) {
	if len(symbol) < 6 {
		return nil, fmt.Errorf("symbol %q too short for a currency pair", symbol)
	}
	fromCur, toCur := symbol[:3], symbol[3:6]

	var raw map[string]json.RawMessage
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"function":    {"FX_INTRADAY"},
			"from_symbol": {fromCur},
			"to_symbol":   {toCur},
			"interval":    {c.interval},
			"outputsize":  {"full"},
			"apikey":      {c.apiKey},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	// API-level failures come back as 200s with a message body.
	if msg, ok := raw["Error Message"]; ok {
		var s string
		_ = json.Unmarshal(msg, &s)
		if c.l != nil {
			c.l.Warn("alphavantage error response", applogger.String("message", s))
		}
		return nil, models.ErrNoData
	}
	if note, ok := raw["Note"]; ok {
		var s string
		_ = json.Unmarshal(note, &s)
		if c.l != nil {
			c.l.Warn("alphavantage rate limited", applogger.String("note", s))
		}
		return nil, models.ErrNoData
	}

	series, err := findSeries(raw)
	if err != nil {
		return nil, err
	}

	bars := make([]models.Bar, 0, len(series))
	for ts, fields := range series {
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		b := models.Bar{Timestamp: t.UTC(), Symbol: symbol}
		if b.Open, err = parsePrice(fields, "1. open"); err != nil {
			return nil, err
		}
		if b.High, err = parsePrice(fields, "2. high"); err != nil {
			return nil, err
		}
		if b.Low, err = parsePrice(fields, "3. low"); err != nil {
			return nil, err
		}
		if b.Close, err = parsePrice(fields, "4. close"); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, models.ErrNoData
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	if c.l != nil {
		c.l.Info("alphavantage fetch ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}

// findSeries locates the "Time Series FX (...)" key whose exact name
// depends on the requested interval.
func findSeries(raw map[string]json.RawMessage) (map[string]map[string]string, error) {
	for key, val := range raw {
		if !strings.HasPrefix(key, "Time Series") {
			continue
		}
		var series map[string]map[string]string
		if err := json.Unmarshal(val, &series); err != nil {
			return nil, fmt.Errorf("decode series %q: %w", key, err)
		}
		return series, nil
	}
	return nil, models.ErrNoData
}

func parsePrice(fields map[string]string, key string) (float64, error) {
	s, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse field %q: %w", key, err)
	}
	return v, nil
}
