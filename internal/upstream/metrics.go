package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// upstreamRequestsTotal — запросы к внешним источникам по статусу ответа.
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_upstream_requests_total",
			Help: "Количество запросов к внешним источникам данных",
		},
		[]string{"source", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cs_upstream_request_duration_seconds",
			Help:    "Длительность запросов к внешним источникам в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)
