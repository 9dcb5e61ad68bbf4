package endorsement

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/DFlowProtocol/endorsement-server/pkg/signature"
)

// MaybeApprovePaymentInLieu decides a payment-in-lieu token. The embedded
// endorsement must not have expired (the boundary second itself is already
// expired) and the issuer's signature over the canonical payment-in-lieu
// message must verify. Malformed base58 or base64 in the token is a
// verification failure, never a crash. On success the authority counter-signs
// the canonical approval message.
func (a *Authority) MaybeApprovePaymentInLieu(token PaymentInLieuToken, now time.Time) (ApprovalResult, error) {
	if a.gate != nil && !a.gate.Allow() {
		return ApprovalResult{Reason: ReasonRateLimitExceeded}, nil
	}

	if now.Unix() >= token.Endorsement.ExpirationTimeUTC {
		return ApprovalResult{Reason: ReasonEndorsementExpired}, nil
	}

	msg, err := a.codec.EncodePaymentInLieuMessage(token)
	if err != nil {
		return ApprovalResult{}, fmt.Errorf("endorsement: encode payment-in-lieu message: %w", err)
	}
	if !verifyIssuerSignature(msg, token.Issuer, token.Signature) {
		return ApprovalResult{Reason: ReasonInvalidTokenSignature}, nil
	}

	approvalMsg, err := a.codec.EncodePaymentInLieuApprovalMessage(token)
	if err != nil {
		return ApprovalResult{}, fmt.Errorf("endorsement: encode approval message: %w", err)
	}
	approval := a.engine.Sign(approvalMsg)
	return ApprovalResult{
		Approved: true,
		Approval: base64.StdEncoding.EncodeToString(approval),
	}, nil
}

func verifyIssuerSignature(msg []byte, issuerB58, sigB64 string) bool {
	issuer, err := base58.Decode(issuerB58)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false
	}
	return signature.Verify(msg, sig, issuer)
}
