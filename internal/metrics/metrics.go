package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side-effect names used as the "effect" label.
const (
	EffectSheet      = "sheet"
	EffectAdminEmail = "admin_email"
	EffectUserEmail  = "user_email"
)

// Values of the "status" label.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

var (
	// Submission metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotizador_submissions_total",
			Help: "Total number of accepted quote submissions",
		},
		[]string{"segment", "quote_type"},
	)

	RejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotizador_rejected_requests_total",
			Help: "Total number of requests rejected before processing",
		},
		[]string{"reason"},
	)

	// Side-effect metrics
	SideEffectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cotizador_side_effects_total",
			Help: "Outcome of each spreadsheet write and email send",
		},
		[]string{"effect", "status"},
	)

	SideEffectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cotizador_side_effect_duration_seconds",
			Help:    "Duration of each side effect in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"effect"},
	)
)

// ObserveEffect records one attempt of effect.
func ObserveEffect(effect string, err error, d time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	SideEffectsTotal.WithLabelValues(effect, status).Inc()
	SideEffectDuration.WithLabelValues(effect).Observe(d.Seconds())
}

// SkipEffect records an effect that was not attempted.
func SkipEffect(effect string) {
	SideEffectsTotal.WithLabelValues(effect, StatusSkipped).Inc()
}
