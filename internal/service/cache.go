// cache.go — in-memory копия последнего сгенерированного изображения.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша изображения.
var (
	imageCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cs_image_cache_hits_total",
		Help: "Общее количество попаданий в кэш сводного изображения.",
	})
	imageCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cs_image_cache_misses_total",
		Help: "Общее количество промахов кэша сводного изображения.",
	})
)

// ImageCache — LRU-кэш байтов изображения с TTL.
// Каждый экземпляр сервиса держит собственную копию; источник истины — файл на диске.
type ImageCache struct {
	cache *expirable.LRU[string, []byte]
}

// NewImageCache создаёт кэш на maxSize изображений с временем жизни ttl.
func NewImageCache(maxSize int, ttl time.Duration) *ImageCache {
	return &ImageCache{cache: expirable.NewLRU[string, []byte](maxSize, nil, ttl)}
}

// Get возвращает байты изображения по ключу.
// Обновляет Prometheus-метрики hit/miss.
func (c *ImageCache) Get(key string) ([]byte, bool) {
	val, ok := c.cache.Get(key)
	if ok {
		imageCacheHitsTotal.Inc()
		return val, true
	}
	imageCacheMissesTotal.Inc()
	return nil, false
}

// Set заменяет изображение по ключу.
func (c *ImageCache) Set(key string, data []byte) {
	c.cache.Add(key, data)
}

// Delete удаляет изображение из кэша.
func (c *ImageCache) Delete(key string) {
	c.cache.Remove(key)
}
