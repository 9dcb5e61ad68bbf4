package protocol

import (
	"bytes"
	"testing"

	"github.com/DFlowProtocol/endorsement-server/pkg/endorsement"
)

func sampleData() endorsement.EndorsementData {
	return endorsement.EndorsementData{
		RetailTrader: "T1",
		SendToken:    "SOL",
		ReceiveToken: "USDC",
		SendQuantity: "1000000",
	}
}

func sampleToken() endorsement.PaymentInLieuToken {
	return endorsement.PaymentInLieuToken{
		ID:           "pil-1",
		Issuer:       "4Nd1mY2Yq3x6m7s8u9vC1xLhrpWnE5kDgkQCKSMSJzRr",
		Notional:     "1000000",
		AuctionID:    7,
		AuctionEpoch: 3,
		Endorsement: endorsement.Endorsement{
			Signature:         "c2ln",
			ID:                "aWQxMjM0NQ==",
			ExpirationTimeUTC: 1700000060,
			Data:              "ZGF0YQ==",
		},
		Signature: "dG9rZW5zaWc=",
	}
}

func TestEncodeEndorsementData_Deterministic(t *testing.T) {
	c := Codec{}
	a, err := c.EncodeEndorsementData(sampleData())
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	b, err := c.EncodeEndorsementData(sampleData())
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("same payload encoded differently")
	}
}

func TestEncodeEndorsementData_DistinctPayloadsDistinctBytes(t *testing.T) {
	c := Codec{}
	base := sampleData()

	variants := []endorsement.EndorsementData{
		{RetailTrader: "T2", SendToken: "SOL", ReceiveToken: "USDC", SendQuantity: "1000000"},
		{RetailTrader: "T1", SendToken: "SOL", ReceiveToken: "USDC", MaxSendQuantity: "1000000"},
		{RetailTrader: "T1", SendToken: "SOL", ReceiveToken: "USDC", SendQuantity: "100000"},
		{RetailTrader: "T1", ReceiveToken: "USDC", SendQuantity: "1000000", SendToken: ""},
		{RetailTrader: "T1", SendToken: "SOL", ReceiveToken: "USDC", SendQuantity: "1000000",
			PlatformFee: &endorsement.PlatformFee{Bps: 0, Receiver: "FeeVault"}},
	}

	baseBytes, err := c.EncodeEndorsementData(base)
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	seen := map[string]int{string(baseBytes): -1}
	for i, v := range variants {
		enc, err := c.EncodeEndorsementData(v)
		if err != nil {
			t.Fatalf("variant %d: %v", i, err)
		}
		if prev, dup := seen[string(enc)]; dup {
			t.Fatalf("variants %d and %d encode identically", prev, i)
		}
		seen[string(enc)] = i
	}
}

func TestEncodeEndorsementData_AbsentVersusEmptyOptional(t *testing.T) {
	c := Codec{}

	// A send quantity of "0" and an absent quantity must not collide; the
	// option tag separates them.
	withQty := endorsement.EndorsementData{RetailTrader: "T", ReceiveToken: "USDC", SendToken: "SOL", SendQuantity: "0"}
	without := endorsement.EndorsementData{RetailTrader: "T", ReceiveToken: "USDC", SendToken: "SOL"}
	a, err := c.EncodeEndorsementData(withQty)
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	b, err := c.EncodeEndorsementData(without)
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("present and absent quantity encode identically")
	}
}

func TestEncodeEndorsementData_FieldShiftDoesNotCollide(t *testing.T) {
	c := Codec{}
	// Moving a suffix of one string onto the next field must change the
	// encoding; length prefixes guarantee this.
	a, err := c.EncodeEndorsementData(endorsement.EndorsementData{RetailTrader: "AB", ReceiveToken: "C"})
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	b, err := c.EncodeEndorsementData(endorsement.EndorsementData{RetailTrader: "A", ReceiveToken: "BC"})
	if err != nil {
		t.Fatalf("EncodeEndorsementData: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("shifted fields encode identically")
	}
}

func TestEncodeEndorsementMessage_BindsAllInputs(t *testing.T) {
	c := Codec{}
	data := []byte{1, 2, 3}
	base, err := c.EncodeEndorsementMessage("aWQ=", 1700000060, data)
	if err != nil {
		t.Fatalf("EncodeEndorsementMessage: %v", err)
	}

	otherID, _ := c.EncodeEndorsementMessage("aXQ=", 1700000060, data)
	otherExp, _ := c.EncodeEndorsementMessage("aWQ=", 1700000061, data)
	otherData, _ := c.EncodeEndorsementMessage("aWQ=", 1700000060, []byte{1, 2, 4})
	for name, enc := range map[string][]byte{"id": otherID, "expiration": otherExp, "data": otherData} {
		if bytes.Equal(base, enc) {
			t.Fatalf("changing %s did not change the message bytes", name)
		}
	}
}

func TestMessageKindsAreDisjoint(t *testing.T) {
	c := Codec{}
	token := sampleToken()

	pil, err := c.EncodePaymentInLieuMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuMessage: %v", err)
	}
	approval, err := c.EncodePaymentInLieuApprovalMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuApprovalMessage: %v", err)
	}
	if bytes.Equal(pil, approval) {
		t.Fatalf("payment-in-lieu and approval messages encode identically")
	}
	if pil[0] == approval[0] {
		t.Fatalf("message kind tags collide")
	}
}

func TestEncodePaymentInLieuMessage_ExcludesTokenSignature(t *testing.T) {
	c := Codec{}
	token := sampleToken()
	a, err := c.EncodePaymentInLieuMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuMessage: %v", err)
	}
	token.Signature = "ZGlmZmVyZW50"
	b, err := c.EncodePaymentInLieuMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuMessage: %v", err)
	}
	// The issuer signs this message, so the message cannot contain the
	// signature itself.
	if !bytes.Equal(a, b) {
		t.Fatalf("payment-in-lieu message depends on the token signature")
	}
}

func TestEncodePaymentInLieuApprovalMessage_IncludesTokenSignature(t *testing.T) {
	c := Codec{}
	token := sampleToken()
	a, err := c.EncodePaymentInLieuApprovalMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuApprovalMessage: %v", err)
	}
	token.Signature = "ZGlmZmVyZW50"
	b, err := c.EncodePaymentInLieuApprovalMessage(token)
	if err != nil {
		t.Fatalf("EncodePaymentInLieuApprovalMessage: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("approval message ignores the token signature")
	}
}
