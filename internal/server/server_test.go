package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
	"github.com/bigkaa/countrystat/country-service/internal/config"
)

// stubHandler фиксирует, какой обработчик был вызван.
type stubHandler struct {
	generated.Unimplemented
	called string
	name   string
}

func (s *stubHandler) ListCountries(w http.ResponseWriter, _ *http.Request, _ generated.ListCountriesParams) {
	s.called = "list"
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) GetSummaryImage(w http.ResponseWriter, _ *http.Request) {
	s.called = "image"
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) GetCountry(w http.ResponseWriter, _ *http.Request, name string) {
	s.called = "get"
	s.name = name
	w.WriteHeader(http.StatusOK)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() *config.Config {
	return &config.Config{Port: 8080, CORSAllowedOrigins: []string{"*"}}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		path       string
		wantCalled string
		wantName   string
	}{
		{"/countries", "list", ""},
		{"/countries/image", "image", ""},
		{"/countries/Nigeria", "get", "Nigeria"},
		{"/countries/United%20States", "get", "United States"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			stub := &stubHandler{}
			router := NewRouter(testConfig(), testLogger(), stub)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("код = %d, ожидался 200", rec.Code)
			}
			if stub.called != tt.wantCalled {
				t.Errorf("вызван %q, ожидался %q", stub.called, tt.wantCalled)
			}
			if stub.name != tt.wantName {
				t.Errorf("name = %q, ожидался %q", stub.name, tt.wantName)
			}
		})
	}
}

func TestRouter_RepeatedQueryParam(t *testing.T) {
	stub := &stubHandler{}
	router := NewRouter(testConfig(), testLogger(), stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/countries?sort=name_asc&sort=gdp_desc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код = %d, ожидался 400", rec.Code)
	}
	if stub.called != "" {
		t.Errorf("обработчик не должен вызываться, вызван %q", stub.called)
	}
	var body generated.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Validation failed" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(testConfig(), testLogger(), &stubHandler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("код = %d, ожидался 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(testConfig(), testLogger(), &stubHandler{})

	req := httptest.NewRequest(http.MethodOptions, "/countries/Nigeria", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, ожидался *", got)
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	router := NewRouter(testConfig(), testLogger(), &panicHandler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("код = %d, ожидался 500", rec.Code)
	}
}

type panicHandler struct {
	generated.Unimplemented
}

func (panicHandler) GetStatus(http.ResponseWriter, *http.Request) {
	panic("boom")
}
