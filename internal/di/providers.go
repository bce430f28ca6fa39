package di

import (
	"context"
	"fmt"
	"time"

	domrepo "FXCast/internal/domain/repository"
	domsvc "FXCast/internal/domain/service"
	"FXCast/internal/handler/api"
	internalrepo "FXCast/internal/repository"
	"FXCast/internal/service/alphavantage"
	icache "FXCast/internal/service/cache"
	"FXCast/internal/service/stream"
	"FXCast/internal/services/features"
	"FXCast/internal/services/model"
	"FXCast/internal/usecase"
	pkgch "FXCast/pkg/clickhouse"
	"FXCast/pkg/config"
	xhttp "FXCast/pkg/http"
	pkgkafka "FXCast/pkg/kafka"
	applogger "FXCast/pkg/logger"
	"FXCast/pkg/metrics"
	"FXCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.BarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideArtifactStore creates the SQLite artifact store.
func ProvideArtifactStore(cfg *config.Config) (domrepo.ArtifactStore, error) {
	store, err := internalrepo.NewSQLiteArtifactStore(cfg.Artifacts.Path)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the prediction sink: Kafka when enabled,
// otherwise a local JSONL file.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewFilePredictionSink(cfg.Prediction.OutputPath), nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.PredictionsTopic, cfg.Kafka.BarsTopic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClassifier creates the HTTP model-service adapter.
func ProvideClassifier(cfg *config.Config) domsvc.Classifier {
	return model.NewHTTPClassifier(cfg)
}

// ProvideBarSource creates the backfill source. The literal key "demo"
// selects the deterministic generator for keyless local runs.
func ProvideBarSource(cfg *config.Config, l *applogger.Logger) domrepo.BarSource {
	if cfg.AlphaVantage.APIKey == "" || cfg.AlphaVantage.APIKey == "demo" {
		return alphavantage.NewDemoSource(cfg.Model.TrainWindowBars, 42)
	}
	return alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.Interval,
		cfg.AlphaVantage.Timeout,
		alphavantage.WithLogger(l),
	)
}

// ProvideMarketStream creates the live tick stream.
func ProvideMarketStream(cfg *config.Config, l *applogger.Logger) domrepo.MarketStream {
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Symbol,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		l,
	)
}

// ProvideFeatureParams maps config to feature-construction parameters.
func ProvideFeatureParams(cfg *config.Config) features.Params {
	p := features.DefaultParams()
	if len(cfg.Features.Returns) > 0 {
		p.ReturnPeriods = cfg.Features.Returns
	}
	if len(cfg.Features.SMADeviation) > 0 {
		p.SMAPeriods = cfg.Features.SMADeviation
	}
	if len(cfg.Features.ATRPeriods) > 0 {
		p.ATRPeriods = cfg.Features.ATRPeriods
	}
	if cfg.Features.RSIPeriod > 0 {
		p.RSIPeriod = cfg.Features.RSIPeriod
	}
	p.IncludeHour = cfg.Features.IncludeHour
	p.IncludeDOW = cfg.Features.IncludeDOW
	if cfg.Label.HorizonBars > 0 {
		p.Horizon = cfg.Label.HorizonBars
	}
	if cfg.Label.Threshold > 0 {
		p.Threshold = cfg.Label.Threshold
	}
	return p
}

// ProvideTrainer creates the training usecase.
func ProvideTrainer(
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	classifier domsvc.Classifier,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
	params features.Params,
) *usecase.Trainer {
	return usecase.NewTrainer(store, artifacts, classifier, m, l, usecase.TrainerConfig{
		Params:             params,
		ValidationFraction: cfg.Model.ValidationSplit,
		TrainWindowBars:    cfg.Model.TrainWindowBars,
	})
}

// ProvidePredictor creates the inference usecase.
func ProvidePredictor(
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	classifier domsvc.Classifier,
	publisher domrepo.Publisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
	params features.Params,
) *usecase.Predictor {
	return usecase.NewPredictor(store, artifacts, classifier, publisher, m, l, usecase.PredictorConfig{
		Params:              params,
		WindowBars:          cfg.Prediction.WindowBars,
		ConfidenceThreshold: cfg.Prediction.ConfidenceThreshold,
	})
}

// ProvideBarsQuery creates the bar-range read usecase.
func ProvideBarsQuery(store domrepo.BarStore) *usecase.BarsQuery {
	return usecase.NewBarsQuery(store)
}

// ProvideBarCollector creates the live ingest usecase.
func ProvideBarCollector(
	ms domrepo.MarketStream,
	store domrepo.BarStore,
	publisher domrepo.Publisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.BarCollector {
	return usecase.NewBarCollector(ms, store, publisher, m, l, cfg.Stream.FlushInterval)
}

// ProvideBackfiller creates the historical backfill usecase.
func ProvideBackfiller(source domrepo.BarSource, store domrepo.BarStore, m domrepo.Metrics, l *applogger.Logger) *usecase.Backfiller {
	return usecase.NewBackfiller(source, store, m, l)
}

// ProvideCache selects Redis when enabled, in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHTTPHandler assembles the API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	predictor *usecase.Predictor,
	trainer *usecase.Trainer,
	bars *usecase.BarsQuery,
	cache icache.BytesCache,
	store domrepo.BarStore,
) xhttp.Handler {
	h := api.NewSignalsHandler(l, predictor, trainer, bars)
	h.SetCache(cache)
	h.SetHealthChecker(api.NewDependencyHealth(store))
	return h
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	chClient *pkgch.Client,
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	publisher domrepo.Publisher,
	backfiller *usecase.Backfiller,
	trainer *usecase.Trainer,
	predictor *usecase.Predictor,
	collector *usecase.BarCollector,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, chClient, store, artifacts, publisher, backfiller, trainer, predictor, collector, handler)
}
