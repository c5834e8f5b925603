// query.go — валидация query-параметров GET /countries.
// Выполняется до обращения к сервисному слою.
package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bigkaa/countrystat/country-service/internal/api/generated"
	"github.com/bigkaa/countrystat/country-service/internal/repository"
)

// ErrValidation — некорректные параметры запроса.
var ErrValidation = errors.New("validation failed")

// sortOptions — допустимые значения sort и соответствующая сортировка.
var sortOptions = map[generated.ListCountriesParamsSort]struct{ by, order string }{
	generated.NameAsc:        {repository.SortByName, repository.SortAsc},
	generated.NameDesc:       {repository.SortByName, repository.SortDesc},
	generated.GdpAsc:         {repository.SortByEstimatedGDP, repository.SortAsc},
	generated.GdpDesc:        {repository.SortByEstimatedGDP, repository.SortDesc},
	generated.PopulationAsc:  {repository.SortByPopulation, repository.SortAsc},
	generated.PopulationDesc: {repository.SortByPopulation, repository.SortDesc},
}

// sortValues — порядок перечисления в сообщении об ошибке.
var sortValues = []generated.ListCountriesParamsSort{
	generated.NameAsc, generated.NameDesc,
	generated.GdpAsc, generated.GdpDesc,
	generated.PopulationAsc, generated.PopulationDesc,
}

// parseListQuery проверяет параметры списка и переводит их в repository.ListParams.
// Ошибка оборачивает ErrValidation; её текст уходит клиенту в details.
func parseListQuery(params generated.ListCountriesParams) (repository.ListParams, error) {
	result := repository.ListParams{
		SortBy:    repository.SortByName,
		SortOrder: repository.SortAsc,
	}

	if params.Region != nil {
		if region := strings.TrimSpace(*params.Region); region != "" {
			result.Region = &region
		}
	}
	if params.Currency != nil {
		if currency := strings.TrimSpace(*params.Currency); currency != "" {
			result.Currency = &currency
		}
	}

	if params.Sort != nil {
		opt, ok := sortOptions[*params.Sort]
		if !ok {
			values := make([]string, 0, len(sortValues))
			for _, v := range sortValues {
				values = append(values, string(v))
			}
			return repository.ListParams{}, fmt.Errorf("%w: sort must be one of the following values: %s",
				ErrValidation, strings.Join(values, ", "))
		}
		result.SortBy = opt.by
		result.SortOrder = opt.order
	}

	return result, nil
}

// validationDetails возвращает текст ошибки без префикса ErrValidation.
func validationDetails(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
