package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bigkaa/countrystat/country-service/internal/domain/model"
)

// countryColumns — список столбцов таблицы countries для SELECT-запросов.
// NUMERIC читается как text и разбирается в decimal без потери точности.
const countryColumns = `id, name, capital, region, population, currency_code,
	exchange_rate::text, estimated_gdp::text, flag_url,
	created_at, updated_at, last_refreshed_at`

// Поля сортировки списка стран.
const (
	SortByName         = "name"
	SortByEstimatedGDP = "estimated_gdp"
	SortByPopulation   = "population"
)

// Направления сортировки.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams — параметры выборки списка стран.
// nil-указатель = фильтр не применяется.
type ListParams struct {
	// Region — подстрока региона (регистронезависимо)
	Region *string
	// Currency — точный код валюты
	Currency *string
	// SortBy — name, estimated_gdp, population (по умолчанию name)
	SortBy string
	// SortOrder — asc, desc (по умолчанию asc)
	SortOrder string
}

// CountryRepository — интерфейс доступа к таблице countries.
type CountryRepository interface {
	// GetByName возвращает страну по точному (регистрозависимому) имени.
	GetByName(ctx context.Context, name string) (*model.Country, error)
	// FindByNameLike возвращает одну страну, имя которой содержит name
	// (регистронезависимо). При нескольких совпадениях приоритет у точного
	// совпадения, затем — по имени по возрастанию.
	FindByNameLike(ctx context.Context, name string) (*model.Country, error)
	// Create вставляет новую страну; заполняет ID, CreatedAt, UpdatedAt.
	Create(ctx context.Context, c *model.Country) error
	// Update перезаписывает поля страны по ID; обновляет UpdatedAt.
	Update(ctx context.Context, c *model.Country) error
	// Delete удаляет страну по ID.
	Delete(ctx context.Context, id int64) error
	// Count возвращает общее количество стран.
	Count(ctx context.Context) (int, error)
	// List возвращает страны с фильтрами и сортировкой.
	List(ctx context.Context, params ListParams) ([]*model.Country, error)
	// TopByEstimatedGDP возвращает до limit стран с известным ВВП, по убыванию ВВП.
	TopByEstimatedGDP(ctx context.Context, limit int) ([]*model.Country, error)
	// LastRefreshedAt возвращает максимальный last_refreshed_at или nil.
	LastRefreshedAt(ctx context.Context) (*time.Time, error)
}

// countryRepo — реализация CountryRepository через pgx.
type countryRepo struct {
	db DBTX
}

// NewCountryRepository создаёт репозиторий стран.
func NewCountryRepository(db DBTX) CountryRepository {
	return &countryRepo{db: db}
}

// GetByName возвращает страну по точному имени или ErrNotFound.
func (r *countryRepo) GetByName(ctx context.Context, name string) (*model.Country, error) {
	query := fmt.Sprintf(`SELECT %s FROM countries WHERE name = $1`, countryColumns)

	c, err := scanCountry(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения страны по имени: %w", err)
	}
	return c, nil
}

// FindByNameLike возвращает страну по подстроке имени или ErrNotFound.
func (r *countryRepo) FindByNameLike(ctx context.Context, name string) (*model.Country, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM countries
		WHERE name ILIKE $1
		ORDER BY (LOWER(name) = LOWER($2)) DESC, name ASC, id ASC
		LIMIT 1`, countryColumns)

	c, err := scanCountry(r.db.QueryRow(ctx, query, containsPattern(name), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска страны по подстроке: %w", err)
	}
	return c, nil
}

// Create вставляет новую страну.
// Возвращает ErrConflict, если страна с таким именем уже существует.
func (r *countryRepo) Create(ctx context.Context, c *model.Country) error {
	query := `
		INSERT INTO countries (
			name, capital, region, population, currency_code,
			exchange_rate, estimated_gdp, flag_url, last_refreshed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.Name, c.Capital, c.Region, c.Population, c.CurrencyCode,
		decimalArg(c.ExchangeRate), decimalArg(c.EstimatedGDP), c.FlagURL, c.LastRefreshedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания страны: %w", err)
	}
	return nil
}

// Update перезаписывает все изменяемые поля страны по ID.
func (r *countryRepo) Update(ctx context.Context, c *model.Country) error {
	query := `
		UPDATE countries SET
			name = $2, capital = $3, region = $4, population = $5,
			currency_code = $6, exchange_rate = $7, estimated_gdp = $8,
			flag_url = $9, last_refreshed_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Capital, c.Region, c.Population,
		c.CurrencyCode, decimalArg(c.ExchangeRate), decimalArg(c.EstimatedGDP),
		c.FlagURL, c.LastRefreshedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка обновления страны: %w", err)
	}
	return nil
}

// Delete удаляет страну по ID или возвращает ErrNotFound.
func (r *countryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления страны: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count возвращает общее количество стран.
func (r *countryRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM countries`).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта стран: %w", err)
	}
	return total, nil
}

// List возвращает страны с фильтрами по региону/валюте и сортировкой.
func (r *countryRepo) List(ctx context.Context, params ListParams) ([]*model.Country, error) {
	where, args := buildListWhere(params, 1)
	orderBy := buildOrderBy(params.SortBy, params.SortOrder)

	query := fmt.Sprintf(`SELECT %s FROM countries %s %s`, countryColumns, where, orderBy)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки стран: %w", err)
	}
	return collectCountries(rows)
}

// TopByEstimatedGDP возвращает страны с известным ВВП по убыванию ВВП.
func (r *countryRepo) TopByEstimatedGDP(ctx context.Context, limit int) ([]*model.Country, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM countries
		WHERE estimated_gdp IS NOT NULL
		ORDER BY estimated_gdp DESC, name ASC
		LIMIT $1`, countryColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки топа по ВВП: %w", err)
	}
	return collectCountries(rows)
}

// LastRefreshedAt возвращает время последнего refresh среди всех стран.
// nil — ни одна страна ещё не обновлялась.
func (r *countryRepo) LastRefreshedAt(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := r.db.QueryRow(ctx, `SELECT MAX(last_refreshed_at) FROM countries`).Scan(&last); err != nil {
		return nil, fmt.Errorf("ошибка получения времени последнего refresh: %w", err)
	}
	return last, nil
}

// buildListWhere строит WHERE-условие и аргументы для списка стран.
// startArg — номер первого $-параметра.
func buildListWhere(params ListParams, startArg int) (whereClause string, args []any) {
	var conditions []string
	argNum := startArg

	// Регион — подстрока, регистронезависимо
	if params.Region != nil && *params.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region ILIKE $%d", argNum))
		args = append(args, containsPattern(*params.Region))
		argNum++
	}

	// Валюта — точное совпадение
	if params.Currency != nil && *params.Currency != "" {
		conditions = append(conditions, fmt.Sprintf("currency_code = $%d", argNum))
		args = append(args, *params.Currency)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// buildOrderBy строит ORDER BY с безопасным whitelist полей.
// NULL-значения ВВП всегда в конце, независимо от направления.
// Второй ключ — name ASC, чтобы порядок был детерминированным.
func buildOrderBy(sortBy, sortOrder string) string {
	column := SortByName
	switch sortBy {
	case SortByEstimatedGDP:
		column = SortByEstimatedGDP
	case SortByPopulation:
		column = SortByPopulation
	}

	direction := "ASC"
	if strings.EqualFold(sortOrder, SortDesc) {
		direction = "DESC"
	}

	if column == SortByName {
		return fmt.Sprintf("ORDER BY name %s", direction)
	}
	if column == SortByEstimatedGDP {
		return fmt.Sprintf("ORDER BY estimated_gdp %s NULLS LAST, name ASC", direction)
	}
	return fmt.Sprintf("ORDER BY %s %s, name ASC", column, direction)
}

// containsPattern оборачивает подстроку в %...% для ILIKE,
// экранируя спецсимволы шаблона.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// decimalArg преобразует NullDecimal в аргумент запроса (текст для NUMERIC).
func decimalArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

// parseNullDecimal разбирает текстовое представление NUMERIC.
func parseNullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("некорректное значение NUMERIC %q: %w", *s, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// scanCountry сканирует одну строку в model.Country.
func scanCountry(row pgx.Row) (*model.Country, error) {
	c := &model.Country{}
	var rate, gdp *string
	if err := row.Scan(
		&c.ID, &c.Name, &c.Capital, &c.Region, &c.Population, &c.CurrencyCode,
		&rate, &gdp, &c.FlagURL,
		&c.CreatedAt, &c.UpdatedAt, &c.LastRefreshedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if c.ExchangeRate, err = parseNullDecimal(rate); err != nil {
		return nil, err
	}
	if c.EstimatedGDP, err = parseNullDecimal(gdp); err != nil {
		return nil, err
	}
	return c, nil
}

// collectCountries читает все строки результата и закрывает rows.
func collectCountries(rows pgx.Rows) ([]*model.Country, error) {
	defer rows.Close()

	result := make([]*model.Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования страны: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}
