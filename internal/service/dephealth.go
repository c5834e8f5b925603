// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Country Service мониторит:
//   - PostgreSQL — SQL checker через существующий pgxpool (connection pool mode, critical)
//   - Countries API и Exchange Rates API — HTTP checker (non-critical: без них
//     недоступен только refresh, чтение продолжает работать)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthConfig — параметры мониторинга зависимостей.
type DephealthConfig struct {
	// ServiceID — имя вершины графа текущего приложения
	ServiceID string
	// Group — имя группы в метриках (CS_DEPHEALTH_GROUP)
	Group string
	// DB — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool()
	DB *sql.DB
	// PostgresURL — URL PostgreSQL для лейблов (без пароля)
	PostgresURL string
	// CountriesAPIURL — полный URL списка стран
	CountriesAPIURL string
	// ExchangeRatesAPIURL — полный URL таблицы курсов
	ExchangeRatesAPIURL string
	// CheckInterval — интервал проверки (CS_DEPHEALTH_CHECK_INTERVAL)
	CheckInterval time.Duration
	// IsEntry — лейбл isentry=yes для всех зависимостей (DEPHEALTH_ISENTRY)
	IsEntry bool
	// Registerer — Prometheus registerer; nil = глобальный registry
	Registerer prometheus.Registerer
}

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger) (*DephealthService, error) {
	pgDepOpts := []dephealth.DependencyOption{
		dephealth.FromURL(cfg.PostgresURL),
		dephealth.CheckInterval(cfg.CheckInterval),
		dephealth.Critical(true),
	}
	if cfg.IsEntry {
		pgDepOpts = append(pgDepOpts, dephealth.WithLabel("isentry", "yes"))
	}

	countriesOpts, err := httpDependencyOptions(cfg.CountriesAPIURL, cfg.CheckInterval, cfg.IsEntry)
	if err != nil {
		return nil, fmt.Errorf("countries-api: %w", err)
	}
	ratesOpts, err := httpDependencyOptions(cfg.ExchangeRatesAPIURL, cfg.CheckInterval, cfg.IsEntry)
	if err != nil {
		return nil, fmt.Errorf("exchange-rates-api: %w", err)
	}

	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(cfg.DB)), pgDepOpts...),
		dephealth.HTTP("countries-api", countriesOpts...),
		dephealth.HTTP("exchange-rates-api", ratesOpts...),
	}
	if cfg.Registerer != nil {
		opts = append(opts, dephealth.WithRegisterer(cfg.Registerer))
	}

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// httpDependencyOptions разбивает полный URL источника на адрес и probe path.
// Проверяется тот же ресурс, который запрашивает refresh.
func httpDependencyOptions(rawURL string, interval time.Duration, isEntry bool) ([]dephealth.DependencyOption, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный URL %q: %w", rawURL, err)
	}

	probePath := parsed.EscapedPath()
	if probePath == "" {
		probePath = "/"
	}
	if parsed.RawQuery != "" {
		probePath += "?" + parsed.RawQuery
	}
	base := url.URL{Scheme: parsed.Scheme, Host: parsed.Host}

	opts := []dephealth.DependencyOption{
		dephealth.FromURL(base.String()),
		dephealth.WithHTTPHealthPath(probePath),
		dephealth.CheckInterval(interval),
		dephealth.Critical(false),
	}
	if parsed.Scheme == "https" {
		opts = append(opts, dephealth.WithHTTPTLSSkipVerify(false))
	}
	if isEntry {
		opts = append(opts, dephealth.WithLabel("isentry", "yes"))
	}
	return opts, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (PostgreSQL + внешние API)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
