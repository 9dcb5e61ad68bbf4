package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	endorsementsIssued   prometheus.Counter
	endorseRejections    *prometheus.CounterVec
	approvalsGranted     prometheus.Counter
	approvalRejections   *prometheus.CounterVec
	invalidRequestsTotal prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}
	m.endorsementsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "endorsements_issued_total",
		Help: "Endorsements signed and returned to callers.",
	})
	m.endorseRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "endorse_rejections_total",
		Help: "Endorsement requests rejected, by reason code.",
	}, []string{"reason"})
	m.approvalsGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_in_lieu_approvals_total",
		Help: "Payment-in-lieu tokens counter-approved.",
	})
	m.approvalRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_in_lieu_rejections_total",
		Help: "Payment-in-lieu tokens rejected, by reason code.",
	}, []string{"reason"})
	m.invalidRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invalid_endorsement_requests_total",
		Help: "Requests that failed structural validation.",
	})
	m.registry.MustRegister(
		m.endorsementsIssued,
		m.endorseRejections,
		m.approvalsGranted,
		m.approvalRejections,
		m.invalidRequestsTotal,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
