// Package metrics defines and registers the custom Prometheus metrics of the
// user directory. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init and
// are served on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

const namespace = "directory"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success", "rejected" (invalid credentials) or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthorizationDecisionsTotal counts route authorization decisions.
// Labels:
//   - requirement: "public", "authenticated", "role" or "any_role"
//   - decision: "allowed", "unauthorized" or "forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization decisions, by requirement kind and decision.",
	},
	[]string{"requirement", "decision"},
)

// ── Directory metrics ────────────────────────────────────────────────────────

// UserOperationsTotal counts user directory writes.
// Labels:
//   - operation: "create", "update" or "delete"
//   - result: "ok" or an ErrorReason value
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user directory writes, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ErrorReason maps an error to a low-cardinality label value.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}

// RequirementLabel returns the requirement kind label for r.
func RequirementLabel(r domain.Requirement) string {
	switch r.Kind {
	case domain.AccessPublic:
		return "public"
	case domain.AccessAuthenticated:
		return "authenticated"
	case domain.AccessRole:
		return "role"
	case domain.AccessAnyRole:
		return "any_role"
	default:
		return "unknown"
	}
}
