package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipmate_requests_total",
			Help: "Total number of requests per route",
		},
		[]string{"route"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipmate_request_duration_seconds",
			Help:    "Request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipmate_request_errors_total",
			Help: "Total number of error responses per route and status code",
		},
		[]string{"route", "code"},
	)
)

var (
	InstallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipmate_oauth_installs_total",
			Help: "Total number of completed OAuth installations",
		},
	)

	UninstallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipmate_oauth_uninstalls_total",
			Help: "Total number of uninstall callbacks processed",
		},
	)

	TokenExchangeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipmate_token_exchange_failures_total",
			Help: "Total number of failed OAuth token exchanges",
		},
	)

	MetadataRegistrationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipmate_metadata_registration_failures_total",
			Help: "Total number of failed shipping-endpoint registrations",
		},
	)

	RateQuotesServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipmate_rate_quotes_served_total",
			Help: "Total number of rate-quote responses served",
		},
	)
)
