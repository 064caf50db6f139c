// Package metrics defines all custom Prometheus metrics for the account
// service. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry at
// package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure". Failures are not broken down further;
//     distinguishing bad-password from unknown-email in a public metric
//     would leak what the API itself refuses to reveal.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account creations by outcome.
// Label:
//   - result: "created", "conflict", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts issued bearer tokens.
// Label:
//   - origin: "register", "login", "password_change", or "impersonation"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by origin.",
	},
	[]string{"origin"},
)

// TokenRejectionsTotal counts bearer tokens rejected by the auth middleware.
var TokenRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected for an invalid, expired, or revoked token.",
	},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDenialsTotal counts policy denials by route.
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of authorization denials, by route.",
	},
	[]string{"route"},
)

// ── Mail pipeline metrics ─────────────────────────────────────────────────────

// MailQueueDepth tracks the number of messages waiting in the delivery queue.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in the mail delivery queue.",
	},
)

// MailFailuresTotal counts delivery attempts that failed.
var MailFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Total number of failed mail delivery attempts.",
	},
)

// mailSendDuration measures one delivery attempt end-to-end.
var mailSendDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_send_duration_seconds",
		Help:      "Duration of a single mail delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)

// NewMailSendTimer returns a timer that records into mail_send_duration_seconds.
func NewMailSendTimer() *prometheus.Timer {
	return prometheus.NewTimer(mailSendDuration)
}
