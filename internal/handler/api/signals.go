package api

import (
	"encoding/json"
	"errors"
	"time"

	"FXCast/internal/domain/models"
	icache "FXCast/internal/service/cache"
	"FXCast/internal/service/metrics"
	"FXCast/internal/service/ratelimit"
	"FXCast/internal/usecase"
	xhttp "FXCast/pkg/http"
	xlogger "FXCast/pkg/logger"
	"FXCast/pkg/util"

	"github.com/labstack/echo/v4"
)

const signalCacheTTL = 10 * time.Second

// SignalsHandler serves the inference API: latest signal, on-demand
// training, raw bars, and health.
type SignalsHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
	trainer   *usecase.Trainer
	bars      *usecase.BarsQuery
	health    HealthChecker

	cache icache.BytesCache
	rl    *ratelimit.Limiter
}

// HealthChecker reports readiness of the serving pipeline.
type HealthChecker interface {
	Healthy(c echo.Context) map[string]string
}

func NewSignalsHandler(logger *xlogger.Logger, predictor *usecase.Predictor, trainer *usecase.Trainer, bars *usecase.BarsQuery) *SignalsHandler {
	metrics.Register()
	return &SignalsHandler{
		logger:    logger,
		predictor: predictor,
		trainer:   trainer,
		bars:      bars,
		rl:        ratelimit.New(),
	}
}

// SetCache injects a response cache.
func (h *SignalsHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetHealthChecker injects the health probe.
func (h *SignalsHandler) SetHealthChecker(hc HealthChecker) { h.health = hc }

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.POST("/train", h.Train)
	g.GET("/bars", h.Bars)
	e.GET("/healthz", h.Health)
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("signal").Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":signal", 10, 5) {
		return xhttp.DataResponse(c, 429, "rate limited")
	}

	cacheKey := "signal:" + req.Symbol
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("signal cache_get_error", xlogger.Error(err))
		} else if ok {
			var res models.PredictionResult
			if err := json.Unmarshal(b, &res); err == nil {
				return xhttp.SuccessResponse(c, &res)
			}
		}
	}

	res, err := h.predictor.LatestN(c.Request().Context(), req.Symbol, req.N)
	if err != nil {
		metrics.APIErrors.WithLabelValues("signal").Inc()
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, signalCacheTTL); err != nil {
				h.logger.Warn("signal cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Train(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("train").Observe(time.Since(start).Seconds()) }()

	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// training is expensive; one concurrent run per symbol per minute
	if !h.rl.Allow("train:"+req.Symbol, 1, 1.0/60) {
		return xhttp.DataResponse(c, 429, "training already requested recently")
	}

	report, err := h.trainer.Train(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues("train").Inc()
		h.logger.Error("train usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.CreatedResponse(c, report)
}

func (h *SignalsHandler) Bars(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("bars").Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from := util.ParseTimeDefault(req.From, time.Now().UTC().Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, time.Now().UTC())

	bars, err := h.bars.Range(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues("bars").Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.ListResponse(c, bars, int64(len(bars)))
}

func (h *SignalsHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.health != nil {
		status = h.health.Healthy(c)
	}
	return xhttp.SuccessResponse(c, status)
}

// toAppError maps domain sentinels to HTTP-facing errors.
func toAppError(err error) error {
	switch {
	case errors.Is(err, models.ErrModelNotLoaded):
		return xhttp.ServiceUnavailableError("no trained model available").WithError(err)
	case errors.Is(err, models.ErrNoData):
		return xhttp.NotFoundError("not enough data").WithError(err)
	case errors.Is(err, models.ErrSchemaMismatch):
		return xhttp.ConflictError("feature schema does not match trained model").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
