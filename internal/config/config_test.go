package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBHost != "localhost" || cfg.DBPort != 5432 {
		t.Errorf("DB = %s:%d, ожидается localhost:5432", cfg.DBHost, cfg.DBPort)
	}
	if cfg.DBName != "country_api" {
		t.Errorf("DBName = %q, ожидается country_api", cfg.DBName)
	}
	if !cfg.DBSync {
		t.Error("DBSync = false, ожидается true")
	}
	if cfg.CountriesAPIURL != DefaultCountriesAPIURL {
		t.Errorf("CountriesAPIURL = %q", cfg.CountriesAPIURL)
	}
	if cfg.ExchangeRatesAPIURL != DefaultExchangeRatesAPIURL {
		t.Errorf("ExchangeRatesAPIURL = %q", cfg.ExchangeRatesAPIURL)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("UpstreamTimeout = %v, ожидается 10s", cfg.UpstreamTimeout)
	}
	if cfg.UpstreamMaxRedirects != 5 {
		t.Errorf("UpstreamMaxRedirects = %d, ожидается 5", cfg.UpstreamMaxRedirects)
	}
	if cfg.CacheDir != "cache" {
		t.Errorf("CacheDir = %q, ожидается cache", cfg.CacheDir)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, ожидается [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.DephealthEnabled {
		t.Error("DephealthEnabled = true, ожидается false")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CS_PORT", "9090")
	t.Setenv("CS_LOG_LEVEL", "debug")
	t.Setenv("CS_LOG_FORMAT", "text")
	t.Setenv("CS_DB_SYNC", "false")
	t.Setenv("CS_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CS_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидается text", cfg.LogFormat)
	}
	if cfg.DBSync {
		t.Error("DBSync = true, ожидается false")
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("UpstreamTimeout = %v, ожидается 3s", cfg.UpstreamTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v, ожидалось 2 элемента", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not int", "CS_PORT", "abc"},
		{"port out of range", "CS_PORT", "70000"},
		{"log level", "CS_LOG_LEVEL", "verbose"},
		{"log format", "CS_LOG_FORMAT", "xml"},
		{"ssl mode", "CS_DB_SSL_MODE", "prefer-maybe"},
		{"db sync", "CS_DB_SYNC", "yes-please"},
		{"timeout", "CS_UPSTREAM_TIMEOUT", "10"},
		{"negative redirects", "CS_UPSTREAM_MAX_REDIRECTS", "-1"},
		{"relative url", "CS_COUNTRIES_API_URL", "/v2/all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			if err == nil {
				t.Fatalf("ожидалась ошибка для %s=%q", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("ошибка %q не содержит имя переменной %s", err, tt.key)
			}
		})
	}
}

func TestConfig_MigrateURL(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     5433,
		DBName:     "countries",
		DBUser:     "svc",
		DBPassword: "p@ss",
		DBSSLMode:  "disable",
	}

	got := cfg.MigrateURL()
	want := "pgx5://svc:p%40ss@db:5433/countries?sslmode=disable"
	if got != want {
		t.Errorf("MigrateURL() = %q, ожидается %q", got, want)
	}

	if dbURL := cfg.DatabaseURL(); strings.Contains(dbURL, "p@ss") {
		t.Errorf("DatabaseURL() содержит пароль: %q", dbURL)
	}
}
