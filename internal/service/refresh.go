// refresh.go — цикл refresh: загрузка стран и курсов, вычисление оценки ВВП,
// upsert по имени и перегенерация сводного изображения.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
	"github.com/bigkaa/countrystat/country-service/internal/upstream"
)

// Границы случайного множителя оценки ВВП (включительно).
const (
	MinGDPMultiplier = 1000
	MaxGDPMultiplier = 2000
)

// Prometheus-метрики refresh.
var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cs_refresh_total",
		Help: "Количество циклов refresh по результату.",
	}, []string{"status"})
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cs_refresh_duration_seconds",
		Help:    "Длительность цикла refresh.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})
	refreshCountriesProcessed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cs_refresh_countries_processed",
		Help: "Количество стран, сохранённых последним успешным циклом refresh.",
	})
	refreshCountryErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cs_refresh_country_errors_total",
		Help: "Количество стран, пропущенных из-за ошибок декодирования или записи.",
	})
)

// CountrySource — внешние источники данных для refresh.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]upstream.RawCountry, error)
	FetchExchangeRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// SummaryGenerator — перегенерация сводного изображения после refresh.
type SummaryGenerator interface {
	Generate(ctx context.Context) error
}

// RefreshResult — итог успешного цикла refresh.
type RefreshResult struct {
	// Count — число сохранённых (созданных или обновлённых) стран
	Count int
	// RefreshedAt — метка времени цикла, записанная во все затронутые страны
	RefreshedAt time.Time
}

// RefreshOption — опция RefreshService.
type RefreshOption func(*RefreshService)

// WithMultiplier подменяет генератор случайного множителя ВВП.
func WithMultiplier(fn func() int64) RefreshOption {
	return func(s *RefreshService) { s.multiplier = fn }
}

// WithClock подменяет источник текущего времени.
func WithClock(fn func() time.Time) RefreshOption {
	return func(s *RefreshService) { s.now = fn }
}

// RefreshService — цикл обновления данных о странах.
// Конкурентные вызовы Refresh не координируются.
type RefreshService struct {
	source     CountrySource
	repo       repository.CountryRepository
	summary    SummaryGenerator
	multiplier func() int64
	now        func() time.Time
	logger     *slog.Logger
}

// NewRefreshService создаёт сервис refresh.
func NewRefreshService(
	source CountrySource,
	repo repository.CountryRepository,
	summary SummaryGenerator,
	logger *slog.Logger,
	opts ...RefreshOption,
) *RefreshService {
	s := &RefreshService{
		source:     source,
		repo:       repo,
		summary:    summary,
		multiplier: randomMultiplier,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "refresh_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// randomMultiplier возвращает равномерно распределённое целое в [1000, 2000].
func randomMultiplier() int64 {
	return MinGDPMultiplier + rand.Int64N(MaxGDPMultiplier-MinGDPMultiplier+1) //nolint:gosec // G404: не криптография
}

// Refresh выполняет полный цикл обновления.
// Оба источника запрашиваются до первой записи; сбой любого из них
// прерывает цикл с ErrUpstreamUnavailable. Ошибки отдельных стран
// логируются, страна пропускается.
func (s *RefreshService) Refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	logger := s.logger.With(slog.String("refresh_id", uuid.New().String()))
	logger.Info("Refresh запущен")

	defer func() {
		refreshDuration.Observe(time.Since(start).Seconds())
	}()

	rawCountries, err := s.source.FetchCountries(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("upstream_error").Inc()
		logger.Error("Не удалось получить список стран", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	rates, err := s.source.FetchExchangeRates(ctx)
	if err != nil {
		refreshTotal.WithLabelValues("upstream_error").Inc()
		logger.Error("Не удалось получить курсы валют", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	refreshedAt := s.now().UTC().Truncate(time.Microsecond)
	count := 0
	skipped := 0

	for i, raw := range rawCountries {
		if err := ctx.Err(); err != nil {
			refreshTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("refresh прерван после %d стран: %w", count, err)
		}

		src, err := raw.Decode()
		if err != nil {
			skipped++
			refreshCountryErrorsTotal.Inc()
			logger.Warn("Страна пропущена: некорректная запись",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}

		record := s.buildRecord(src, rates, refreshedAt)
		if err := s.upsert(ctx, record); err != nil {
			skipped++
			refreshCountryErrorsTotal.Inc()
			logger.Warn("Страна пропущена: ошибка записи",
				slog.String("name", record.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		count++
	}

	if err := s.summary.Generate(ctx); err != nil {
		logger.Error("Ошибка генерации сводного изображения", slog.String("error", err.Error()))
	}

	refreshTotal.WithLabelValues("success").Inc()
	refreshCountriesProcessed.Set(float64(count))

	logger.Info("Refresh завершён",
		slog.Int("saved", count),
		slog.Int("skipped", skipped),
		slog.Int("rates", len(rates)),
		slog.Duration("duration", time.Since(start)),
	)

	return &RefreshResult{Count: count, RefreshedAt: refreshedAt}, nil
}

// buildRecord вычисляет поля записи: валюту, курс и оценку ВВП.
// ВВП присутствует только при наличии и валюты, и курса.
func (s *RefreshService) buildRecord(
	src *upstream.Country,
	rates map[string]decimal.Decimal,
	refreshedAt time.Time,
) *model.Country {
	c := &model.Country{
		Name:            src.Name,
		Capital:         optional(src.Capital),
		Region:          optional(src.Region),
		Population:      *src.Population,
		FlagURL:         optional(src.Flag),
		LastRefreshedAt: &refreshedAt,
	}

	code := src.PrimaryCurrency()
	if code == "" {
		return c
	}
	c.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok {
		return c
	}
	c.ExchangeRate = decimal.NewNullDecimal(rate)
	c.EstimatedGDP = decimal.NewNullDecimal(EstimateGDP(c.Population, s.multiplier(), rate))
	return c
}

// EstimateGDP = population × multiplier / rate, округление до 2 знаков.
func EstimateGDP(population, multiplier int64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(population).
		Mul(decimal.NewFromInt(multiplier)).
		Div(rate).
		Round(2)
}

// upsert обновляет страну с тем же точным именем (ID сохраняется) или создаёт новую.
func (s *RefreshService) upsert(ctx context.Context, c *model.Country) error {
	existing, err := s.repo.GetByName(ctx, c.Name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.repo.Create(ctx, c)
	case err != nil:
		return err
	}

	c.ID = existing.ID
	return s.repo.Update(ctx, c)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
