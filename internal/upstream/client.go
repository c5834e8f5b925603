// Пакет upstream — HTTP-клиент внешних источников данных:
// список стран (REST Countries) и таблица курсов валют к USD (ExchangeRate API).
// Повторные попытки не выполняются: любой сбой прерывает цикл refresh.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Имена источников — попадают в ответ 503 и в лейблы метрик.
const (
	SourceCountries     = "Countries API"
	SourceExchangeRates = "Exchange Rates API"
)

// ErrUnavailable — внешний источник недоступен (сеть, не-2xx, битое тело ответа).
var ErrUnavailable = errors.New("внешний источник данных недоступен")

// Error — ошибка обращения к конкретному источнику.
// errors.Is(err, ErrUnavailable) == true.
type Error struct {
	// Source — SourceCountries или SourceExchangeRates
	Source string
	// StatusCode — HTTP-статус ответа (0, если ответа не было)
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: статус %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is сопоставляет любую ошибку источника с ErrUnavailable.
func (e *Error) Is(target error) bool { return target == ErrUnavailable }

// Currency — элемент списка валют страны.
type Currency struct {
	Code string `json:"code"`
}

// Country — декодированная запись о стране из REST Countries.
type Country struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Region     string     `json:"region"`
	Population *int64     `json:"population"`
	Currencies []Currency `json:"currencies"`
	Flag       string     `json:"flag"`
}

// PrimaryCurrency возвращает код первой валюты или "" при пустом списке.
func (c *Country) PrimaryCurrency() string {
	if len(c.Currencies) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Currencies[0].Code)
}

// RawCountry — недекодированный элемент массива стран.
// Декодирование выполняется поштучно, чтобы битая запись не ломала весь цикл.
type RawCountry json.RawMessage

// MarshalJSON возвращает исходные байты.
func (r RawCountry) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON сохраняет копию исходных байтов.
func (r *RawCountry) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

// Decode разбирает запись и проверяет обязательные поля.
func (r RawCountry) Decode() (*Country, error) {
	var c Country
	if err := json.Unmarshal(r, &c); err != nil {
		return nil, fmt.Errorf("некорректная запись страны: %w", err)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, errors.New("некорректная запись страны: пустое имя")
	}
	if c.Population == nil {
		return nil, fmt.Errorf("страна %q: отсутствует население", c.Name)
	}
	if *c.Population < 0 {
		return nil, fmt.Errorf("страна %q: отрицательное население %d", c.Name, *c.Population)
	}
	return &c, nil
}

// ratesResponse — ответ ExchangeRate API.
type ratesResponse struct {
	Result string                     `json:"result"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Client — клиент внешних источников.
type Client struct {
	httpClient   *http.Client
	countriesURL string
	ratesURL     string
	logger       *slog.Logger
}

// New создаёт клиент с фиксированным таймаутом и ограничением числа редиректов.
func New(countriesURL, ratesURL string, timeout time.Duration, maxRedirects int, logger *slog.Logger) *Client {
	httpClient := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("превышено число редиректов (%d)", maxRedirects)
			}
			return nil
		},
	}

	return &Client{
		httpClient:   httpClient,
		countriesURL: countriesURL,
		ratesURL:     ratesURL,
		logger:       logger.With(slog.String("component", "upstream_client")),
	}
}

// FetchCountries запрашивает полный список стран.
// Элементы возвращаются в порядке источника, без декодирования.
func (c *Client) FetchCountries(ctx context.Context) ([]RawCountry, error) {
	var countries []RawCountry
	if err := c.getJSON(ctx, SourceCountries, c.countriesURL, &countries); err != nil {
		return nil, err
	}

	c.logger.Debug("Список стран получен", slog.Int("count", len(countries)))
	return countries, nil
}

// FetchExchangeRates запрашивает таблицу курсов к USD.
// Неположительные курсы отбрасываются.
func (c *Client) FetchExchangeRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	var resp ratesResponse
	if err := c.getJSON(ctx, SourceExchangeRates, c.ratesURL, &resp); err != nil {
		return nil, err
	}
	if resp.Result == "error" {
		return nil, &Error{Source: SourceExchangeRates, Err: errors.New("источник вернул result=error")}
	}
	if resp.Rates == nil {
		return nil, &Error{Source: SourceExchangeRates, Err: errors.New("в ответе нет поля rates")}
	}

	rates := make(map[string]decimal.Decimal, len(resp.Rates))
	for code, rate := range resp.Rates {
		if !rate.IsPositive() {
			c.logger.Warn("Неположительный курс пропущен",
				slog.String("currency", code),
				slog.String("rate", rate.String()),
			)
			continue
		}
		rates[code] = rate
	}

	c.logger.Debug("Курсы валют получены", slog.Int("count", len(rates)))
	return rates, nil
}

// getJSON выполняет GET и декодирует JSON-тело в dst.
// Любой сбой оборачивается в *Error с именем источника.
func (c *Client) getJSON(ctx context.Context, source, reqURL string, dst any) error {
	start := time.Now()
	status := "error"
	defer func() {
		upstreamRequestsTotal.WithLabelValues(source, status).Inc()
		upstreamRequestDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return &Error{Source: source, Err: fmt.Errorf("создание запроса: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		c.logger.Warn("Источник недоступен",
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		return &Error{Source: source, Err: err}
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Источник вернул ошибочный статус",
			slog.String("source", source),
			slog.Int("status", resp.StatusCode),
		)
		return &Error{
			Source:     source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("неожиданный ответ: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		status = "decode_error"
		return &Error{Source: source, StatusCode: resp.StatusCode, Err: fmt.Errorf("декодирование ответа: %w", err)}
	}
	return nil
}
