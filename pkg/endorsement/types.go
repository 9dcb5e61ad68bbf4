// Package endorsement implements the endorsing authority: it decides whether
// an incoming retail-trade request is well formed, signs an endorsement for
// it, and counter-approves payment-in-lieu settlement tokens that carry a
// previously issued endorsement.
package endorsement

// EndorsementRequest is the caller-supplied, untrusted input to MaybeEndorse.
// All fields are strings as received on the wire; an empty string is treated
// as an absent value.
type EndorsementRequest struct {
	RetailTrader        string `json:"retailTrader"`
	SendToken           string `json:"sendToken,omitempty"`
	ReceiveToken        string `json:"receiveToken"`
	SendQty             string `json:"sendQty,omitempty"`
	MaxSendQty          string `json:"maxSendQty,omitempty"`
	PlatformFeeBps      string `json:"platformFeeBps,omitempty"`
	PlatformFeeReceiver string `json:"platformFeeReceiver,omitempty"`
}

// PlatformFee is present only when both raw fee fields were supplied and the
// bps value parsed as an integer in [0, 5000].
type PlatformFee struct {
	Bps      uint16 `json:"bps"`
	Receiver string `json:"receiver"`
}

// EndorsementData is the canonical logical payload derived from a validated
// request. At most one of SendQuantity and MaxSendQuantity is set.
// Quantities remain decimal strings end to end; very large token amounts must
// never pass through a fixed-width numeric type.
type EndorsementData struct {
	RetailTrader    string
	PlatformFee     *PlatformFee
	SendToken       string
	ReceiveToken    string
	SendQuantity    string
	MaxSendQuantity string
}

// Endorsement is a signed attestation that a specific retail trade request is
// authorized by this authority until ExpirationTimeUTC. Immutable once
// created.
type Endorsement struct {
	// Signature is the base64 Ed25519 signature over the canonical
	// endorsement message.
	Signature string `json:"signature"`
	// ID is 8 random bytes, base64 encoded.
	ID string `json:"id"`
	// ExpirationTimeUTC is a unix timestamp in seconds.
	ExpirationTimeUTC int64 `json:"expirationTimeUtc"`
	// Data is the canonical encoding of the EndorsementData, base64 encoded.
	Data string `json:"data"`
}

// PaymentInLieuToken is an untrusted settlement token referencing a
// previously issued endorsement. Issuer is a base58 public key and Signature
// a base64 Ed25519 signature by that issuer over the canonical
// payment-in-lieu message.
type PaymentInLieuToken struct {
	ID           string      `json:"id"`
	Issuer       string      `json:"issuer"`
	Notional     string      `json:"notional"`
	AuctionID    uint64      `json:"auctionId"`
	AuctionEpoch uint64      `json:"auctionEpoch"`
	Endorsement  Endorsement `json:"endorsement"`
	Signature    string      `json:"signature"`
}

// RejectionReason identifies a business rejection. Rejections are expected
// outcomes and travel inside results, never inside errors.
type RejectionReason string

const (
	ReasonRateLimitExceeded     RejectionReason = "RateLimitExceeded"
	ReasonEndorsementExpired    RejectionReason = "EndorsementExpired"
	ReasonInvalidTokenSignature RejectionReason = "InvalidPaymentInLieuTokenSignature"
)

// EndorseResult is the outcome of MaybeEndorse. Exactly one of Endorsement
// (when Endorsed) and Reason (when not) is meaningful.
type EndorseResult struct {
	Endorsed    bool
	Reason      RejectionReason
	Endorsement *Endorsement
}

// ApprovalResult is the outcome of MaybeApprovePaymentInLieu. Approval is the
// base64 Ed25519 signature over the canonical approval message when Approved.
type ApprovalResult struct {
	Approved bool
	Reason   RejectionReason
	Approval string
}

// Canonicalizer is the protocol-message contract the authority signs through.
// Implementations must be deterministic (same logical input always yields the
// same bytes) and injective over their semantic inputs: no two distinct
// logical payloads may encode identically, since a signature is only
// meaningful if the signed bytes uniquely determine the semantic content.
type Canonicalizer interface {
	EncodeEndorsementData(data EndorsementData) ([]byte, error)
	EncodeEndorsementMessage(id string, expirationTimeUTC int64, encodedData []byte) ([]byte, error)
	EncodePaymentInLieuMessage(token PaymentInLieuToken) ([]byte, error)
	EncodePaymentInLieuApprovalMessage(token PaymentInLieuToken) ([]byte, error)
}

// Gate is consulted before any work begins on an operation. The authority
// never counts requests itself; whether a limit was exceeded is entirely the
// gate's decision.
type Gate interface {
	Allow() bool
}
