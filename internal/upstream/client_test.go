package upstream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const countriesJSON = `[
	{"name":"Nigeria","capital":"Abuja","region":"Africa","population":206139589,
	 "flag":"https://flagcdn.com/ng.svg","currencies":[{"code":"NGN","name":"Nigerian naira","symbol":"₦"}]},
	{"name":"Antarctica","region":"Polar","population":1000,"flag":"https://flagcdn.com/aq.svg"},
	{"name":"","population":5}
]`

const ratesJSON = `{"result":"success","base_code":"USD","rates":{"USD":1,"NGN":1600.23,"EUR":0.92,"BAD":0}}`

// newMockUpstream создаёт тестовый сервер с обоими источниками.
func newMockUpstream(countries, rates http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/all", countries)
	mux.HandleFunc("/v6/latest/USD", rates)
	return httptest.NewServer(mux)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return New(srv.URL+"/v2/all", srv.URL+"/v6/latest/USD", 2*time.Second, 5, slog.Default())
}

// --- FetchCountries ---

func TestFetchCountries_Success(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusOK, countriesJSON), jsonHandler(http.StatusOK, ratesJSON))
	defer srv.Close()

	raw, err := newTestClient(srv).FetchCountries(context.Background())
	if err != nil {
		t.Fatalf("FetchCountries() ошибка: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("len = %d, ожидалось 3", len(raw))
	}

	ng, err := raw[0].Decode()
	if err != nil {
		t.Fatalf("Decode() ошибка: %v", err)
	}
	if ng.Name != "Nigeria" || ng.Capital != "Abuja" || *ng.Population != 206139589 {
		t.Errorf("Nigeria декодирована неверно: %+v", ng)
	}
	if ng.PrimaryCurrency() != "NGN" {
		t.Errorf("PrimaryCurrency() = %q, ожидался NGN", ng.PrimaryCurrency())
	}

	aq, err := raw[1].Decode()
	if err != nil {
		t.Fatalf("Decode() ошибка: %v", err)
	}
	if aq.PrimaryCurrency() != "" {
		t.Errorf("PrimaryCurrency() = %q, ожидалась пустая строка", aq.PrimaryCurrency())
	}

	// Пустое имя — запись отклоняется, но массив целиком получен
	if _, err := raw[2].Decode(); err == nil {
		t.Error("Decode() записи с пустым именем: ожидалась ошибка")
	}
}

func TestRawCountryDecode_Invalid(t *testing.T) {
	tests := map[string]string{
		"not an object":       `"Nigeria"`,
		"missing population":  `{"name":"Nowhere"}`,
		"negative population": `{"name":"Nowhere","population":-1}`,
		"blank name":          `{"name":"   ","population":1}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := RawCountry(body).Decode(); err == nil {
				t.Errorf("Decode(%s): ожидалась ошибка", body)
			}
		})
	}
}

func TestFetchCountries_Non2xx(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusBadGateway, `bad gateway`), jsonHandler(http.StatusOK, ratesJSON))
	defer srv.Close()

	_, err := newTestClient(srv).FetchCountries(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ошибка = %v, ожидалась ErrUnavailable", err)
	}
	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("ошибка %T не является *Error", err)
	}
	if upErr.Source != SourceCountries || upErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Source = %q, StatusCode = %d", upErr.Source, upErr.StatusCode)
	}
}

func TestFetchCountries_MalformedBody(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusOK, `{"not":"an array"}`), jsonHandler(http.StatusOK, ratesJSON))
	defer srv.Close()

	_, err := newTestClient(srv).FetchCountries(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ошибка = %v, ожидалась ErrUnavailable", err)
	}
}

func TestFetchCountries_ConnectionRefused(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusOK, countriesJSON), jsonHandler(http.StatusOK, ratesJSON))
	client := newTestClient(srv)
	srv.Close()

	_, err := client.FetchCountries(context.Background())
	var upErr *Error
	if !errors.As(err, &upErr) || upErr.Source != SourceCountries {
		t.Fatalf("ошибка = %v, ожидалась *Error от %s", err, SourceCountries)
	}
	if upErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, ожидался 0", upErr.StatusCode)
	}
}

func TestFetchCountries_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	client := New(srv.URL+"/loop", srv.URL+"/loop", 2*time.Second, 5, slog.Default())
	_, err := client.FetchCountries(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ошибка = %v, ожидалась ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "редирект") {
		t.Errorf("ошибка %q не упоминает редиректы", err)
	}
}

func TestFetchCountries_RedirectLimit(t *testing.T) {
	const maxRedirects = 5

	tests := []struct {
		name    string
		hops    int
		wantErr bool
	}{
		{"ровно лимит", maxRedirects, false},
		{"на один больше лимита", maxRedirects + 1, true},
		{"без редиректов", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// /hop/0 → /hop/1 → ... → /hop/N, последний отдаёт тело
			mux := http.NewServeMux()
			mux.HandleFunc("GET /hop/{n}", func(w http.ResponseWriter, r *http.Request) {
				n, err := strconv.Atoi(r.PathValue("n"))
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				if n < tt.hops {
					http.Redirect(w, r, "/hop/"+strconv.Itoa(n+1), http.StatusFound)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[]`))
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			client := New(srv.URL+"/hop/0", srv.URL+"/hop/0", 2*time.Second, maxRedirects, slog.Default())
			countries, err := client.FetchCountries(context.Background())

			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("ошибка = %v, ожидалась ErrUnavailable", err)
				}
				if !strings.Contains(err.Error(), "редирект") {
					t.Errorf("ошибка %q не упоминает редиректы", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchCountries() ошибка после %d редиректов: %v", tt.hops, err)
			}
			if len(countries) != 0 {
				t.Errorf("стран = %d, ожидалось 0", len(countries))
			}
		})
	}
}

// --- FetchExchangeRates ---

func TestFetchExchangeRates_Success(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusOK, countriesJSON), jsonHandler(http.StatusOK, ratesJSON))
	defer srv.Close()

	rates, err := newTestClient(srv).FetchExchangeRates(context.Background())
	if err != nil {
		t.Fatalf("FetchExchangeRates() ошибка: %v", err)
	}
	if !rates["NGN"].Equal(decimal.RequireFromString("1600.23")) {
		t.Errorf("NGN = %s, ожидался 1600.23", rates["NGN"])
	}
	if _, ok := rates["BAD"]; ok {
		t.Error("нулевой курс BAD должен быть отброшен")
	}
	if len(rates) != 3 {
		t.Errorf("len = %d, ожидалось 3", len(rates))
	}
}

func TestFetchExchangeRates_ResultError(t *testing.T) {
	srv := newMockUpstream(
		jsonHandler(http.StatusOK, countriesJSON),
		jsonHandler(http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`),
	)
	defer srv.Close()

	_, err := newTestClient(srv).FetchExchangeRates(context.Background())
	var upErr *Error
	if !errors.As(err, &upErr) || upErr.Source != SourceExchangeRates {
		t.Fatalf("ошибка = %v, ожидалась *Error от %s", err, SourceExchangeRates)
	}
}

func TestFetchExchangeRates_Non2xx(t *testing.T) {
	srv := newMockUpstream(jsonHandler(http.StatusOK, countriesJSON), jsonHandler(http.StatusServiceUnavailable, ``))
	defer srv.Close()

	_, err := newTestClient(srv).FetchExchangeRates(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ошибка = %v, ожидалась ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), SourceExchangeRates) {
		t.Errorf("ошибка %q не называет источник", err)
	}
}
