package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	SignupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "signups_total",
		Help:      "Total signup attempts, by outcome.",
	}, []string{"outcome"})

	TokenExchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "token_exchanges_total",
		Help:      "Total token endpoint calls, by grant type and outcome.",
	}, []string{"grant_type", "outcome"})

	// Reminder digest metrics

	ReminderRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "reminder_runs_total",
		Help:      "Number of reminder digest cycles executed.",
	})

	ReminderEmailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "reminder_emails_total",
		Help:      "Reminder digest emails, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "todo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todo",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginsTotal,
		SignupsTotal,
		TokenExchangesTotal,
		ReminderRunsTotal,
		ReminderEmailsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
