package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PortalRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecard_portal_requests_total",
		Help: "Total number of requests sent to the campus-card portal",
	}, []string{"endpoint"})
	PortalRequestFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecard_portal_request_failures_total",
		Help: "Total number of portal requests that failed (transport or protocol)",
	}, []string{"endpoint"})
	SummaryRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecard_summary_runs_total",
		Help: "Total number of summary task runs by outcome (success/failure)",
	}, []string{"outcome"})
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecard_mail_send_success_total",
		Help: "Total number of notification mails delivered to the SMTP relay",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecard_mail_send_failure_total",
		Help: "Total number of notification mails that could not be delivered",
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(PortalRequests)
	prometheus.MustRegister(PortalRequestFailures)
	prometheus.MustRegister(SummaryRuns)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
}

// Handler returns the HTTP handler serving the metrics registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
