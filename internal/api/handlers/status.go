// status.go — обработчик GET /status.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/countrystat/country-service/internal/api/errors"
	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
)

// GetStatus — число стран и время последнего refresh.
func (h *APIHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.countries.Status(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения статуса", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, generated.StatusResponse{
		TotalCountries:  st.TotalCountries,
		LastRefreshedAt: st.LastRefreshedAt,
	})
}
