// Пакет model — доменные модели Country Service.
// Country — маппинг таблицы countries.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country — агрегированная запись о стране.
// Ключ уникальности — Name (точное, регистрозависимое совпадение).
type Country struct {
	// ID — суррогатный ключ (BIGSERIAL)
	ID int64
	// Name — название страны (уникально)
	Name string
	// Capital — столица (опционально)
	Capital *string
	// Region — регион (опционально)
	Region *string
	// Population — население, неотрицательное
	Population int64
	// CurrencyCode — код основной валюты (первая в списке источника)
	CurrencyCode *string
	// ExchangeRate — курс валюты к USD (> 0)
	ExchangeRate decimal.NullDecimal
	// EstimatedGDP — производная оценка ВВП; присутствует только
	// при наличии и CurrencyCode, и ExchangeRate
	EstimatedGDP decimal.NullDecimal
	// FlagURL — URL флага (опционально)
	FlagURL *string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
	// LastRefreshedAt — время последнего успешного refresh, затронувшего запись
	LastRefreshedAt *time.Time
}
