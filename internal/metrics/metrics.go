// Package metrics holds the Prometheus collectors for the auth pipeline.
// Collectors register on the default registry when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docdash"

var (
	// LoginAttemptsTotal counts credential exchanges by result (success, validation, authentication, transport, protocol).
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// GuardDecisionsTotal counts route guard outcomes by action (proceed, proceed_authenticated, redirect).
	GuardDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Total number of route guard decisions by action",
		},
		[]string{"action"},
	)

	// CookieRelaysTotal counts upstream refresh-token cookie relays by outcome (relayed, absent, malformed).
	CookieRelaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cookies",
			Name:      "relays_total",
			Help:      "Total number of refresh-token cookie relays by outcome",
		},
		[]string{"outcome"},
	)

	// SessionDecodeFailuresTotal counts sessions downgraded to anonymous, by reason.
	SessionDecodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "decode_failures_total",
			Help:      "Total number of session tokens rejected during decode by reason",
		},
		[]string{"reason"},
	)
)

func RecordLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

func RecordGuardDecision(action string) {
	GuardDecisionsTotal.WithLabelValues(action).Inc()
}

func RecordCookieRelay(outcome string) {
	CookieRelaysTotal.WithLabelValues(outcome).Inc()
}

func RecordSessionDecodeFailure(reason string) {
	SessionDecodeFailuresTotal.WithLabelValues(reason).Inc()
}
