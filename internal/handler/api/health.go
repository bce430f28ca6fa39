package api

import (
	domrepo "FXCast/internal/domain/repository"

	"github.com/labstack/echo/v4"
)

// DependencyHealth probes backing stores for /healthz.
type DependencyHealth struct {
	store domrepo.BarStore
}

func NewDependencyHealth(store domrepo.BarStore) *DependencyHealth {
	return &DependencyHealth{store: store}
}

var _ HealthChecker = (*DependencyHealth)(nil)

func (d *DependencyHealth) Healthy(c echo.Context) map[string]string {
	status := map[string]string{"status": "ok", "clickhouse": "ok"}
	if err := d.store.Health(c.Request().Context()); err != nil {
		status["status"] = "degraded"
		status["clickhouse"] = err.Error()
	}
	return status
}
