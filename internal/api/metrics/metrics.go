// Package metrics defines the Prometheus collectors for the bizdesk API.
// Collectors register themselves via promauto at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bizdesk"

// RequestsTotal counts finished HTTP requests by method, route pattern and status code.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// RequestDuration measures request latency by route pattern.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency from receipt to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// SessionsCreatedTotal counts sessions created by register and login.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of login sessions created.",
	},
)

// BackupsCreatedTotal counts completed backup archives.
var BackupsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backups_created_total",
		Help:      "Total number of backup archives written.",
	},
)

// WSClientsConnected tracks currently connected WebSocket clients.
var WSClientsConnected = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_clients_connected",
		Help:      "Number of WebSocket clients currently registered with the hub.",
	},
)
