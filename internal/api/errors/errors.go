// Пакет errors — конструкторы стандартных ошибок Country Service.
// Единый формат: {"error": "...", "details": "..."}; details необязателен.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Тексты ошибок, определённые в OpenAPI контракте.
const (
	MsgValidationFailed    = "Validation failed"
	MsgCountryNotFound     = "Country not found"
	MsgImageNotFound       = "Summary image not found"
	MsgUpstreamUnavailable = "External data source unavailable"
	MsgInternalError       = "Internal server error"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, message — краткое описание, details — подробности (может быть пустым).
func WriteError(w http.ResponseWriter, statusCode int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:   message,
		Details: details,
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные параметры запроса.
func ValidationError(w http.ResponseWriter, details string) {
	WriteError(w, http.StatusBadRequest, MsgValidationFailed, details)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, "")
}

// UpstreamUnavailable — 503 внешний источник недоступен.
// source — имя источника ("Countries API", "Exchange Rates API").
func UpstreamUnavailable(w http.ResponseWriter, source string) {
	WriteError(w, http.StatusServiceUnavailable, MsgUpstreamUnavailable, "Could not fetch data from "+source)
}

// InternalError — 500 внутренняя ошибка. Подробности клиенту не раскрываются.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternalError, "")
}
