package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
	"github.com/bigkaa/countrystat/country-service/internal/upstream"
)

// --- Mock repository ---

// mockCountryRepo — мок CountryRepository для unit-тестов.
type mockCountryRepo struct {
	getByNameFn       func(ctx context.Context, name string) (*model.Country, error)
	findByNameLikeFn  func(ctx context.Context, name string) (*model.Country, error)
	createFn          func(ctx context.Context, c *model.Country) error
	updateFn          func(ctx context.Context, c *model.Country) error
	deleteFn          func(ctx context.Context, id int64) error
	countFn           func(ctx context.Context) (int, error)
	listFn            func(ctx context.Context, params repository.ListParams) ([]*model.Country, error)
	topFn             func(ctx context.Context, limit int) ([]*model.Country, error)
	lastRefreshedAtFn func(ctx context.Context) (*time.Time, error)
}

func (m *mockCountryRepo) GetByName(ctx context.Context, name string) (*model.Country, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, repository.ErrNotFound
}

func (m *mockCountryRepo) FindByNameLike(ctx context.Context, name string) (*model.Country, error) {
	if m.findByNameLikeFn != nil {
		return m.findByNameLikeFn(ctx, name)
	}
	return nil, repository.ErrNotFound
}

func (m *mockCountryRepo) Create(ctx context.Context, c *model.Country) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCountryRepo) Update(ctx context.Context, c *model.Country) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockCountryRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCountryRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockCountryRepo) List(ctx context.Context, params repository.ListParams) ([]*model.Country, error) {
	if m.listFn != nil {
		return m.listFn(ctx, params)
	}
	return []*model.Country{}, nil
}

func (m *mockCountryRepo) TopByEstimatedGDP(ctx context.Context, limit int) ([]*model.Country, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return []*model.Country{}, nil
}

func (m *mockCountryRepo) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	if m.lastRefreshedAtFn != nil {
		return m.lastRefreshedAtFn(ctx)
	}
	return nil, nil
}

// memoryStore — in-memory хранилище стран, подключаемое к mockCountryRepo.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*model.Country
}

// newMemoryRepo создаёт mockCountryRepo поверх memoryStore.
func newMemoryRepo() (*mockCountryRepo, *memoryStore) {
	store := &memoryStore{byName: make(map[string]*model.Country)}
	repo := &mockCountryRepo{
		getByNameFn: func(_ context.Context, name string) (*model.Country, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			c, ok := store.byName[name]
			if !ok {
				return nil, repository.ErrNotFound
			}
			cp := *c
			return &cp, nil
		},
		createFn: func(_ context.Context, c *model.Country) error {
			store.mu.Lock()
			defer store.mu.Unlock()
			if _, ok := store.byName[c.Name]; ok {
				return repository.ErrConflict
			}
			store.nextID++
			c.ID = store.nextID
			c.CreatedAt = time.Now()
			c.UpdatedAt = c.CreatedAt
			cp := *c
			store.byName[c.Name] = &cp
			return nil
		},
		updateFn: func(_ context.Context, c *model.Country) error {
			store.mu.Lock()
			defer store.mu.Unlock()
			for name, existing := range store.byName {
				if existing.ID == c.ID {
					delete(store.byName, name)
					c.CreatedAt = existing.CreatedAt
					c.UpdatedAt = time.Now()
					cp := *c
					store.byName[c.Name] = &cp
					return nil
				}
			}
			return repository.ErrNotFound
		},
		countFn: func(_ context.Context) (int, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			return len(store.byName), nil
		},
		topFn: func(_ context.Context, limit int) ([]*model.Country, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			var top []*model.Country
			for _, c := range store.byName {
				if c.EstimatedGDP.Valid {
					top = append(top, c)
				}
			}
			sort.Slice(top, func(i, j int) bool {
				return top[i].EstimatedGDP.Decimal.GreaterThan(top[j].EstimatedGDP.Decimal)
			})
			if len(top) > limit {
				top = top[:limit]
			}
			return top, nil
		},
		lastRefreshedAtFn: func(_ context.Context) (*time.Time, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			var last *time.Time
			for _, c := range store.byName {
				if c.LastRefreshedAt != nil && (last == nil || c.LastRefreshedAt.After(*last)) {
					t := *c.LastRefreshedAt
					last = &t
				}
			}
			return last, nil
		},
	}
	return repo, store
}

func (s *memoryStore) get(name string) (*model.Country, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byName[name]
	return c, ok
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byName)
}

// --- Mock источников ---

// mockSource — мок CountrySource.
type mockSource struct {
	countries    []upstream.RawCountry
	countriesErr error
	rates        map[string]decimal.Decimal
	ratesErr     error
}

func (m *mockSource) FetchCountries(_ context.Context) ([]upstream.RawCountry, error) {
	return m.countries, m.countriesErr
}

func (m *mockSource) FetchExchangeRates(_ context.Context) (map[string]decimal.Decimal, error) {
	return m.rates, m.ratesErr
}

// mockSummary — мок SummaryGenerator, считающий вызовы.
type mockSummary struct {
	calls int
	err   error
}

func (m *mockSummary) Generate(_ context.Context) error {
	m.calls++
	return m.err
}

func rawCountries(items ...string) []upstream.RawCountry {
	out := make([]upstream.RawCountry, 0, len(items))
	for _, item := range items {
		out = append(out, upstream.RawCountry(item))
	}
	return out
}
