// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - reason: "missing", "malformed", "invalid", "expired" or "unavailable"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests whose credential was rejected, by reason.",
	},
	[]string{"reason"},
)

// AccountsRegisteredTotal counts self-registrations.
// Label:
//   - role: the registered role (e.g. "farmer")
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Appointment metrics ───────────────────────────────────────────────────────

// AppointmentTransitionsTotal counts status change attempts.
// Labels:
//   - to: the requested status
//   - result: "ok", "illegal", "conflict", "forbidden" or "error"
var AppointmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_transitions_total",
		Help:      "Total number of appointment status change attempts, by target status and result.",
	},
	[]string{"to", "result"},
)

// AppointmentsBookedTotal counts newly booked appointments.
var AppointmentsBookedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_booked_total",
		Help:      "Total number of appointments booked.",
	},
)

// ── Rating and catalog metrics ────────────────────────────────────────────────

// RatingsCreatedTotal counts accepted ratings. Duplicates are not counted.
var RatingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_created_total",
		Help:      "Total number of ratings created.",
	},
)

// ResourceMutationsTotal counts successful catalog writes.
// Labels:
//   - kind: "cattle", "product" or "news"
//   - op: "create", "replace" or "delete"
var ResourceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_mutations_total",
		Help:      "Total number of catalog writes, by kind and operation.",
	},
	[]string{"kind", "op"},
)
