package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Symbol      string `yaml:"symbol"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	AlphaVantage struct {
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Interval string        `yaml:"interval"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"alphavantage"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		WebSocketURL   string        `yaml:"websocket_url"`
		APIKey         string        `yaml:"api_key"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		FlushInterval  time.Duration `yaml:"flush_interval"`
	} `yaml:"stream"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Artifacts struct {
		Path string `yaml:"path"`
	} `yaml:"artifacts"`
	Kafka struct {
		Enabled          bool          `yaml:"enabled"`
		Brokers          []string      `yaml:"brokers"`
		PredictionsTopic string        `yaml:"predictions_topic"`
		BarsTopic        string        `yaml:"bars_topic"`
		RequiredAcks     int           `yaml:"required_acks"`
		Compression      string        `yaml:"compression"`
		MaxAttempts      int           `yaml:"max_attempts"`
		BatchSize        int           `yaml:"batch_size"`
		BatchBytes       int           `yaml:"batch_bytes"`
		Linger           time.Duration `yaml:"linger"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Features struct {
		Returns      []int `yaml:"returns"`
		SMADeviation []int `yaml:"sma_deviation"`
		ATRPeriods   []int `yaml:"atr_periods"`
		RSIPeriod    int   `yaml:"rsi_period"`
		IncludeHour  bool  `yaml:"include_hour"`
		IncludeDOW   bool  `yaml:"include_dow"`
	} `yaml:"features"`
	Label struct {
		HorizonBars int     `yaml:"horizon_bars"`
		Threshold   float64 `yaml:"threshold"`
	} `yaml:"label"`
	Model struct {
		ServiceURL        string                 `yaml:"service_url"`
		Timeout           time.Duration          `yaml:"timeout"`
		ValidationSplit   float64                `yaml:"validation_split"`
		NumBoostingRounds int                    `yaml:"num_boosting_rounds"`
		TrainWindowBars   int                    `yaml:"train_window_bars"`
		LGBParams         map[string]interface{} `yaml:"lgb_params"`
	} `yaml:"model"`
	Prediction struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
		WindowBars          int     `yaml:"window_bars"`
		OutputPath          string  `yaml:"output_path"`
	} `yaml:"prediction"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		c.Symbol = v
	}
	if v := os.Getenv("MODEL_SERVICE_URL"); v != "" {
		c.Model.ServiceURL = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Symbol) < 6 {
		return fmt.Errorf("symbol must be a currency pair like USDJPY, got '%s'", c.Symbol)
	}
	if c.Model.ServiceURL == "" {
		return fmt.Errorf("model.service_url is required")
	}
	if c.Model.ValidationSplit <= 0 || c.Model.ValidationSplit >= 1 {
		return fmt.Errorf("model.validation_split must be in (0,1), got %v", c.Model.ValidationSplit)
	}
	if c.Label.HorizonBars <= 0 {
		return fmt.Errorf("label.horizon_bars must be positive")
	}
	if c.Label.Threshold <= 0 {
		return fmt.Errorf("label.threshold must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
