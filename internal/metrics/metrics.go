// Package metrics holds the prometheus counters of the auth flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultAbsent   = "absent"
	ResultStale    = "stale"
	ResultInvalid  = "invalid"

	DecisionAllow         = "allow"
	DecisionRedirectLogin = "redirect_login"
	DecisionRedirectHome  = "redirect_landing"
)

var (
	// Logins counts login attempts by outcome.
	Logins = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Number of login attempts, differentiated by result.",
		},
		[]string{"result"},
	)

	// Registrations counts registration attempts by outcome.
	Registrations = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_register_total",
			Help: "Number of registration attempts, differentiated by result.",
		},
		[]string{"result"},
	)

	// Verifications counts stored token verifications by outcome.
	Verifications = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "auth_verify_total",
			Help: "Number of stored token verifications, differentiated by result.",
		},
		[]string{"result"},
	)

	// GatekeeperDecisions counts gatekeeper decisions.
	GatekeeperDecisions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "gatekeeper_decisions_total",
			Help: "Number of gatekeeper decisions, differentiated by decision.",
		},
		[]string{"decision"},
	)

	// ActiveContexts is the number of live session contexts.
	ActiveContexts = promauto.NewGauge( //nolint:gochecknoglobals
		prometheus.GaugeOpts{
			Name: "auth_session_contexts",
			Help: "Number of session contexts held by the registry.",
		},
	)
)
