// Пакет service — бизнес-логика Country Service: цикл refresh,
// генерация сводного изображения и выборки по сохранённым странам.
package service

import "errors"

// Ошибки сервисного слоя.
var (
	// ErrNotFound — страна не найдена.
	ErrNotFound = errors.New("страна не найдена")
	// ErrUpstreamUnavailable — внешний источник данных недоступен, цикл refresh прерван.
	ErrUpstreamUnavailable = errors.New("внешний источник данных недоступен")
	// ErrImageNotFound — сводное изображение ещё не сгенерировано.
	ErrImageNotFound = errors.New("сводное изображение не найдено")
)
