package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
symbol: USDJPY
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
alphavantage:
  api_key: demo
  base_url: https://www.alphavantage.co/query
  interval: 1min
  timeout: 30s
clickhouse:
  host: localhost
  port: 9000
  database: fxcast
kafka:
  enabled: false
features:
  returns: [1, 5]
  sma_deviation: [5]
  atr_periods: [14]
  rsi_period: 14
label:
  horizon_bars: 60
  threshold: 0.1
model:
  service_url: http://localhost:8001
  timeout: 60s
  validation_split: 0.2
  num_boosting_rounds: 200
  train_window_bars: 50000
prediction:
  confidence_threshold: 0.45
  window_bars: 600
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Symbol != "USDJPY" {
		t.Errorf("symbol = %q", c.Symbol)
	}
	if c.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v", c.Server.ReadTimeout)
	}
	if c.Model.ValidationSplit != 0.2 {
		t.Errorf("validation split = %v", c.Model.ValidationSplit)
	}
	if len(c.Features.Returns) != 2 || c.Features.Returns[1] != 5 {
		t.Errorf("returns = %v", c.Features.Returns)
	}
	if c.Label.HorizonBars != 60 || c.Label.Threshold != 0.1 {
		t.Errorf("label = %+v", c.Label)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c, err := Load(writeConfig(t, validYAML))
		if err != nil {
			t.Fatalf("load fixture: %v", err)
		}
		return c
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"short symbol", func(c *Config) { c.Symbol = "USD" }},
		{"missing model url", func(c *Config) { c.Model.ServiceURL = "" }},
		{"validation split zero", func(c *Config) { c.Model.ValidationSplit = 0 }},
		{"validation split one", func(c *Config) { c.Model.ValidationSplit = 1 }},
		{"horizon zero", func(c *Config) { c.Label.HorizonBars = 0 }},
		{"threshold zero", func(c *Config) { c.Label.Threshold = 0 }},
		{"kafka enabled without brokers", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}},
	}
	for _, tc := range cases {
		c := base()
		tc.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_KEY", "envkey")
	t.Setenv("SYMBOL", "EURUSD")
	t.Setenv("MODEL_SERVICE_URL", "http://model:9001")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.AlphaVantage.APIKey != "envkey" {
		t.Errorf("api key = %q", c.AlphaVantage.APIKey)
	}
	if c.Symbol != "EURUSD" {
		t.Errorf("symbol = %q", c.Symbol)
	}
	if c.Model.ServiceURL != "http://model:9001" {
		t.Errorf("model url = %q", c.Model.ServiceURL)
	}
	if c.ClickHouse.Host != "ch.internal" {
		t.Errorf("clickhouse host = %q", c.ClickHouse.Host)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "k1:9092" {
		t.Errorf("brokers = %v", c.Kafka.Brokers)
	}
}
