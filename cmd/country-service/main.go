// Точка входа Country Service — агрегатор стран и курсов валют.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// собирает клиент внешних API и сервисный слой, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/bigkaa/countrystat/country-service/internal/api/handlers"
	"github.com/bigkaa/countrystat/country-service/internal/api/middleware"
	"github.com/bigkaa/countrystat/country-service/internal/config"
	"github.com/bigkaa/countrystat/country-service/internal/database"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
	"github.com/bigkaa/countrystat/country-service/internal/server"
	"github.com/bigkaa/countrystat/country-service/internal/service"
	"github.com/bigkaa/countrystat/country-service/internal/upstream"
)

func main() {
	// 0. .env — только для локального запуска; в кластере переменные задаются окружением
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Не удалось прочитать .env", slog.String("error", err.Error()))
	}

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Country Service запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	if cfg.DBSync {
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.Info("Миграции отключены (CS_DB_SYNC=false)")
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент внешних API
	source := upstream.New(
		cfg.CountriesAPIURL,
		cfg.ExchangeRatesAPIURL,
		cfg.UpstreamTimeout,
		cfg.UpstreamMaxRedirects,
		logger,
	)

	// 6. Репозиторий и сервисный слой
	countryRepo := repository.NewCountryRepository(pool)
	imageCache := service.NewImageCache(1, cfg.ImageCacheTTL)
	summarySvc := service.NewSummaryService(countryRepo, cfg.CacheDir, imageCache, logger)
	refreshSvc := service.NewRefreshService(source, countryRepo, summarySvc, logger)
	countrySvc := service.NewCountryService(countryRepo, logger)

	// 7. topologymetrics — мониторинг PostgreSQL и внешних API
	var deps handlers.DependencyHealth
	var dephealthSvc *service.DephealthService
	if cfg.DephealthEnabled {
		dephealthSvc, err = service.NewDephealthService(service.DephealthConfig{
			ServiceID:           "country-service",
			Group:               cfg.DephealthGroup,
			DB:                  pgDB,
			PostgresURL:         cfg.DatabaseURL(),
			CountriesAPIURL:     cfg.CountriesAPIURL,
			ExchangeRatesAPIURL: cfg.ExchangeRatesAPIURL,
			CheckInterval:       cfg.DephealthCheckInterval,
			IsEntry:             cfg.DephealthIsEntry,
		}, logger)
		if err != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", err.Error()),
			)
			dephealthSvc = nil
		} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
			dephealthSvc = nil
		} else {
			deps = dephealthSvc
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. API handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool), deps)
	apiHandler := handlers.NewAPIHandler(healthHandler, refreshSvc, countrySvc, summarySvc, logger)

	// 9. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler,
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
	)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Country Service остановлен")
}
