// Package server exposes the endorsing authority over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
)

type Server struct {
	authority *endorsement.Authority
	log       zerolog.Logger
	metrics   *metrics

	// now is the wall clock handed to the authority on each call; tests pin
	// it to exercise expiration boundaries.
	now func() time.Time
}

func New(authority *endorsement.Authority, log zerolog.Logger) *Server {
	return &Server{
		authority: authority,
		log:       log.With().Str("component", "server").Logger(),
		metrics:   newMetrics(),
		now:       time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", s.metrics.handler().ServeHTTP)
	r.Get("/endorsement-key", s.handleEndorsementKey)
	r.Post("/endorsement", s.handleEndorse)
	r.Post("/payment-in-lieu/approval", s.handleApprovePaymentInLieu)

	return r
}
