// health.go — обработчики health endpoints Country Service.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL доступен; внешние API влияют только на degraded)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
	"github.com/bigkaa/countrystat/country-service/internal/config"
)

const serviceName = "country-service"

// Константы статусов health check.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
}

// DependencyHealth — текущее состояние зависимостей из topologymetrics.
// Ключ — имя зависимости, значение — true если ok.
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker   ReadinessChecker
	deps        DependencyHealth
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// pgChecker — проверка PostgreSQL (может быть nil — readiness вернёт "fail").
// deps — мониторинг внешних API (может быть nil, если topologymetrics выключен).
func NewHealthHandler(pgChecker ReadinessChecker, deps DependencyHealth) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		deps:        deps,
		promHandler: promhttp.Handler(),
	}
}

type checkResult = struct {
	Message *string `json:"message,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, generated.HealthResponse{
		Status:    generated.Ok,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe. Проверяет PostgreSQL.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]checkResult{}
	statuses := make([]string, 0, 3)

	pgStatus, pgMsg := statusFail, "не инициализирован"
	if h.pgChecker != nil {
		pgStatus, pgMsg = h.pgChecker.CheckReady()
	}
	checks["postgresql"] = newCheckResult(pgStatus, pgMsg)
	statuses = append(statuses, pgStatus)

	// Внешние API не критичны: без них недоступен только refresh
	if h.deps != nil {
		health := h.deps.Health()
		names := make([]string, 0, len(health))
		for name := range health {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if name == "postgresql" {
				continue
			}
			st := statusOK
			if !health[name] {
				st = statusDegraded
			}
			checks[name] = newCheckResult(st, "")
			statuses = append(statuses, st)
		}
	}

	overall := overallStatus(statuses...)
	resp := generated.HealthResponse{
		Status:    generated.HealthResponseStatus(overall),
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Version:   config.Version,
		Service:   serviceName,
		Checks:    &checks,
	}

	code := http.StatusOK
	if overall == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func newCheckResult(status, message string) checkResult {
	res := checkResult{Status: &status}
	if message != "" {
		res.Message = &message
	}
	return res
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == statusFail {
			return statusFail
		}
		if s == statusDegraded {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return statusDegraded
	}
	return statusOK
}
