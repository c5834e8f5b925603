// countries.go — выборки, поиск и удаление сохранённых стран, статус.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
)

// Status — сводное состояние хранилища.
type Status struct {
	// TotalCountries — число сохранённых стран
	TotalCountries int
	// LastRefreshedAt — время последнего refresh; nil, если refresh не выполнялся
	LastRefreshedAt *time.Time
}

// CountryService — запросы к сохранённым странам.
type CountryService struct {
	repo   repository.CountryRepository
	logger *slog.Logger
}

// NewCountryService создаёт сервис запросов.
func NewCountryService(repo repository.CountryRepository, logger *slog.Logger) *CountryService {
	return &CountryService{
		repo:   repo,
		logger: logger.With(slog.String("component", "country_service")),
	}
}

// List возвращает страны с фильтрами и сортировкой.
func (s *CountryService) List(ctx context.Context, params repository.ListParams) ([]*model.Country, error) {
	countries, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("выборка стран: %w", err)
	}
	return countries, nil
}

// FindOne ищет страну по подстроке имени без учёта регистра.
func (s *CountryService) FindOne(ctx context.Context, name string) (*model.Country, error) {
	c, err := s.repo.FindByNameLike(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("поиск страны %q: %w", name, err)
	}
	return c, nil
}

// Remove удаляет страну, найденную так же, как в FindOne.
func (s *CountryService) Remove(ctx context.Context, name string) (*model.Country, error) {
	c, err := s.FindOne(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("удаление страны %q: %w", c.Name, err)
	}

	s.logger.Info("Страна удалена",
		slog.Int64("id", c.ID),
		slog.String("name", c.Name),
	)
	return c, nil
}

// Status возвращает число стран и время последнего refresh.
// Оба значения берутся из хранилища.
func (s *CountryService) Status(ctx context.Context) (*Status, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт стран: %w", err)
	}
	last, err := s.repo.LastRefreshedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("время последнего refresh: %w", err)
	}
	return &Status{TotalCountries: total, LastRefreshedAt: last}, nil
}
