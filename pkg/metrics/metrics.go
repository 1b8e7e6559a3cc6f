package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login steps by stage (request|verify) and result.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_auth_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"stage", "result"},
	)

	// OTPDeliveries counts notifier outcomes (sent|failed).
	OTPDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_otp_deliveries_total",
			Help: "Total number of one-time code deliveries",
		},
		[]string{"result"},
	)

	// SessionRejections counts requests turned away by the auth gate.
	SessionRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_session_rejections_total",
			Help: "Requests rejected for a missing or invalid admin session",
		},
	)

	// Panics counts recovered handler panics per route template.
	Panics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_panics_total",
			Help: "Handler panics recovered by the HTTP stack",
		},
		[]string{"route"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
