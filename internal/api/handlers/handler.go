// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет health и бизнес-обработчики.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
	"github.com/bigkaa/countrystat/country-service/internal/service"
)

// Refresher — запуск цикла refresh (service.RefreshService).
type Refresher interface {
	Refresh(ctx context.Context) (*service.RefreshResult, error)
}

// CountryQuerier — выборки по сохранённым странам (service.CountryService).
type CountryQuerier interface {
	List(ctx context.Context, params repository.ListParams) ([]*model.Country, error)
	FindOne(ctx context.Context, name string) (*model.Country, error)
	Remove(ctx context.Context, name string) (*model.Country, error)
	Status(ctx context.Context) (*service.Status, error)
}

// SummaryImageProvider — выдача сводного изображения (service.SummaryService).
type SummaryImageProvider interface {
	Image(ctx context.Context) ([]byte, error)
}

// APIHandler — основной обработчик API Country Service.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	health    *HealthHandler
	refresher Refresher
	countries CountryQuerier
	summary   SummaryImageProvider
	logger    *slog.Logger
}

var _ generated.ServerInterface = (*APIHandler)(nil)

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	refresher Refresher,
	countries CountryQuerier,
	summary SummaryImageProvider,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		refresher: refresher,
		countries: countries,
		summary:   summary,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
