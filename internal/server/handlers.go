package server

import (
	"errors"
	"net/http"

	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
	"github.com/DFlowProtocol/endorsement-server/pkg/httpx"
	"github.com/DFlowProtocol/endorsement-server/pkg/keys"
)

func (s *Server) handleEndorse(w http.ResponseWriter, r *http.Request) {
	var req endorsement.EndorsementRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	result, err := s.authority.MaybeEndorse(req, s.now())
	if err != nil {
		if errors.Is(err, endorsement.ErrInvalidRequest) {
			s.metrics.invalidRequestsTotal.Inc()
			httpx.WriteError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		s.log.Error().Err(err).Msg("endorse failed")
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "endorsement failed")
		return
	}
	if !result.Endorsed {
		s.metrics.endorseRejections.WithLabelValues(string(result.Reason)).Inc()
		httpx.WriteError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "endorsement rate limit exceeded")
		return
	}

	s.metrics.endorsementsIssued.Inc()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"request_id":  httpx.NewRequestID(),
		"endorsed":    true,
		"endorsement": result.Endorsement,
	})
}

func (s *Server) handleApprovePaymentInLieu(w http.ResponseWriter, r *http.Request) {
	var token endorsement.PaymentInLieuToken
	if err := httpx.ReadJSON(r, &token); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	result, err := s.authority.MaybeApprovePaymentInLieu(token, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("payment-in-lieu approval failed")
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "approval failed")
		return
	}
	if !result.Approved {
		s.metrics.approvalRejections.WithLabelValues(string(result.Reason)).Inc()
		switch result.Reason {
		case endorsement.ReasonRateLimitExceeded:
			httpx.WriteError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "approval rate limit exceeded")
		case endorsement.ReasonEndorsementExpired:
			httpx.WriteError(w, http.StatusForbidden, "ENDORSEMENT_EXPIRED", "the embedded endorsement has expired")
		default:
			httpx.WriteError(w, http.StatusForbidden, "INVALID_TOKEN_SIGNATURE", "token signature did not verify against the issuer key")
		}
		return
	}

	s.metrics.approvalsGranted.Inc()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"request_id": httpx.NewRequestID(),
		"approved":   true,
		"approval":   result.Approval,
	})
}

func (s *Server) handleEndorsementKey(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"request_id":     httpx.NewRequestID(),
		"endorsementKey": keys.EncodePublicBase58(s.authority.PublicKey()),
	})
}
