package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern",
		},
		[]string{"method", "path", "status"},
	)

	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created, by the flow that created them",
		},
		[]string{"source"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Payment notifications received, by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	PaymentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "payments",
			Name:      "requests_total",
			Help:      "Calls to the payment processor, by operation and result",
		},
		[]string{"operation", "result"},
	)
)

var registerOnce sync.Once

// RegisterMetrics adds every collector to the default registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPDuration, HTTPRequests, OrdersCreated, WebhookEvents, PaymentRequests)
	})
}
