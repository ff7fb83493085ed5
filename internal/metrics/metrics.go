// Package metrics holds the Prometheus instruments for the service. All
// instruments are registered on the default registry and exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login outcomes. outcome is one of "success",
	// "invalid_credentials" or "inactive".
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cobrex",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// TokenVerifications counts verify-token outcomes. outcome is "valid",
	// "expired" or "invalid".
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cobrex",
		Subsystem: "auth",
		Name:      "token_verifications_total",
		Help:      "Session token verifications by outcome.",
	}, []string{"outcome"})

	// AuditAppends counts entries written to the activity log.
	AuditAppends = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobrex",
		Subsystem: "audit",
		Name:      "appends_total",
		Help:      "Audit log entries appended.",
	})

	// RemindersSent counts billing reminder deliveries.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobrex",
		Subsystem: "billing",
		Name:      "reminders_sent_total",
		Help:      "Billing payment reminders sent.",
	})

	// HTTPRequests counts served requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cobrex",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "status"})

	// HTTPDuration observes request latency in seconds.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cobrex",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
