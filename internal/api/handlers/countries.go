// countries.go — обработчики /countries: refresh, список, изображение,
// получение и удаление по имени.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	apierrors "github.com/bigkaa/countrystat/country-service/internal/api/errors"
	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/service"
	"github.com/bigkaa/countrystat/country-service/internal/upstream"
)

// Сообщения успешных ответов.
const (
	msgRefreshed = "Countries refreshed successfully"
	msgDeleted   = "Country deleted successfully"
)

// RefreshCountries — POST /countries/refresh.
// Цикл доводится до конца даже при обрыве соединения клиентом.
func (h *APIHandler) RefreshCountries(w http.ResponseWriter, r *http.Request) {
	result, err := h.refresher.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			apierrors.UpstreamUnavailable(w, upErr.Source)
			return
		}
		h.logger.Error("Ошибка refresh", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, generated.RefreshResponse{
		Message: msgRefreshed,
		Count:   result.Count,
	})
}

// ListCountries — GET /countries?region=&currency=&sort=.
func (h *APIHandler) ListCountries(w http.ResponseWriter, r *http.Request, params generated.ListCountriesParams) {
	listParams, err := parseListQuery(params)
	if err != nil {
		apierrors.ValidationError(w, validationDetails(err))
		return
	}

	countries, err := h.countries.List(r.Context(), listParams)
	if err != nil {
		h.logger.Error("Ошибка выборки стран", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, countriesToAPI(countries))
}

// GetSummaryImage — GET /countries/image.
func (h *APIHandler) GetSummaryImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.summary.Image(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			apierrors.NotFound(w, apierrors.MsgImageNotFound)
			return
		}
		h.logger.Error("Ошибка чтения сводного изображения", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetCountry — GET /countries/{name}.
func (h *APIHandler) GetCountry(w http.ResponseWriter, r *http.Request, name string) {
	c, err := h.countries.FindOne(r.Context(), name)
	if err != nil {
		h.writeCountryError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, countryToAPI(c))
}

// DeleteCountry — DELETE /countries/{name}.
func (h *APIHandler) DeleteCountry(w http.ResponseWriter, r *http.Request, name string) {
	if _, err := h.countries.Remove(r.Context(), name); err != nil {
		h.writeCountryError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, generated.MessageResponse{Message: msgDeleted})
}

// writeCountryError — 404 для ErrNotFound, иначе 500.
func (h *APIHandler) writeCountryError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		apierrors.NotFound(w, apierrors.MsgCountryNotFound)
		return
	}
	h.logger.Error("Ошибка обработки страны",
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
	apierrors.InternalError(w)
}

// countriesToAPI конвертирует domain модели в API-тип Country.
func countriesToAPI(countries []*model.Country) []generated.Country {
	items := make([]generated.Country, 0, len(countries))
	for _, c := range countries {
		items = append(items, countryToAPI(c))
	}
	return items
}

// countryToAPI конвертирует одну domain-запись в API Country.
func countryToAPI(c *model.Country) generated.Country {
	return generated.Country{
		Id:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    decimalToNumber(c.ExchangeRate),
		EstimatedGdp:    decimalToNumber(c.EstimatedGDP),
		FlagUrl:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// decimalToNumber — десятичное значение как JSON-число без потери точности.
func decimalToNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}
