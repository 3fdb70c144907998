package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for trial submissions
const (
	OutcomeRelayed       = "relayed"
	OutcomeNotRelayed    = "not_relayed"
	OutcomeInvalid       = "invalid"
	OutcomeGatewayError  = "gateway_error"
	OutcomeInternalError = "internal_error"
	OutcomeRateLimited   = "rate_limited"
)

var (
	TrialSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trial_submissions_total",
			Help: "Total number of free-trial submissions by outcome",
		},
		[]string{"outcome"},
	)

	WebhookRelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_relay_duration_seconds",
			Help:    "Duration of outbound webhook relay calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "code"},
	)
)
