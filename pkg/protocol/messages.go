// Package protocol owns the canonical byte encodings of the endorsement
// protocol messages. Messages are Borsh-encoded fixed wire structs: field
// order is fixed, strings and byte slices are length-prefixed, and optional
// fields carry a one-byte presence tag, so the same logical input always
// yields the same bytes and no two distinct logical payloads encode
// identically. Every signable message starts with a kind tag so the message
// spaces cannot collide with one another.
package protocol

import (
	bin "github.com/gagliardetto/binary"

	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
)

const (
	msgKindEndorsement           uint8 = 1
	msgKindPaymentInLieu         uint8 = 2
	msgKindPaymentInLieuApproval uint8 = 3
)

// Codec implements endorsement.Canonicalizer.
type Codec struct{}

var _ endorsement.Canonicalizer = Codec{}

type platformFeeWire struct {
	Bps      uint16
	Receiver string
}

type endorsementDataWire struct {
	RetailTrader    string
	PlatformFee     *platformFeeWire `bin:"optional"`
	SendToken       *string          `bin:"optional"`
	ReceiveToken    string
	SendQuantity    *string `bin:"optional"`
	MaxSendQuantity *string `bin:"optional"`
}

type endorsementMessageWire struct {
	Kind              uint8
	ID                string
	ExpirationTimeUTC int64
	Data              []byte
}

type endorsementWire struct {
	Signature         string
	ID                string
	ExpirationTimeUTC int64
	Data              string
}

type paymentInLieuMessageWire struct {
	Kind         uint8
	ID           string
	Issuer       string
	Notional     string
	AuctionID    uint64
	AuctionEpoch uint64
	Endorsement  endorsementWire
}

type paymentInLieuApprovalMessageWire struct {
	Kind         uint8
	ID           string
	Issuer       string
	Notional     string
	AuctionID    uint64
	AuctionEpoch uint64
	Endorsement  endorsementWire
	// Signature is the issuer's signature over the payment-in-lieu message;
	// the approval counter-signs the token including it.
	Signature string
}

func (Codec) EncodeEndorsementData(data endorsement.EndorsementData) ([]byte, error) {
	w := endorsementDataWire{
		RetailTrader: data.RetailTrader,
		ReceiveToken: data.ReceiveToken,
	}
	if data.PlatformFee != nil {
		w.PlatformFee = &platformFeeWire{Bps: data.PlatformFee.Bps, Receiver: data.PlatformFee.Receiver}
	}
	if data.SendToken != "" {
		w.SendToken = &data.SendToken
	}
	if data.SendQuantity != "" {
		w.SendQuantity = &data.SendQuantity
	}
	if data.MaxSendQuantity != "" {
		w.MaxSendQuantity = &data.MaxSendQuantity
	}
	return bin.MarshalBorsh(w)
}

func (Codec) EncodeEndorsementMessage(id string, expirationTimeUTC int64, encodedData []byte) ([]byte, error) {
	return bin.MarshalBorsh(endorsementMessageWire{
		Kind:              msgKindEndorsement,
		ID:                id,
		ExpirationTimeUTC: expirationTimeUTC,
		Data:              encodedData,
	})
}

func (Codec) EncodePaymentInLieuMessage(token endorsement.PaymentInLieuToken) ([]byte, error) {
	return bin.MarshalBorsh(paymentInLieuMessageWire{
		Kind:         msgKindPaymentInLieu,
		ID:           token.ID,
		Issuer:       token.Issuer,
		Notional:     token.Notional,
		AuctionID:    token.AuctionID,
		AuctionEpoch: token.AuctionEpoch,
		Endorsement:  endorsementToWire(token.Endorsement),
	})
}

func (Codec) EncodePaymentInLieuApprovalMessage(token endorsement.PaymentInLieuToken) ([]byte, error) {
	return bin.MarshalBorsh(paymentInLieuApprovalMessageWire{
		Kind:         msgKindPaymentInLieuApproval,
		ID:           token.ID,
		Issuer:       token.Issuer,
		Notional:     token.Notional,
		AuctionID:    token.AuctionID,
		AuctionEpoch: token.AuctionEpoch,
		Endorsement:  endorsementToWire(token.Endorsement),
		Signature:    token.Signature,
	})
}

func endorsementToWire(e endorsement.Endorsement) endorsementWire {
	return endorsementWire{
		Signature:         e.Signature,
		ID:                e.ID,
		ExpirationTimeUTC: e.ExpirationTimeUTC,
		Data:              e.Data,
	}
}
