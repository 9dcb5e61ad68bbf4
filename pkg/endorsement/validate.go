package endorsement

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidRequest marks a malformed or contradictory endorsement request.
// It signals a caller bug or malicious input, not a business rejection:
// retrying without changing the input is pointless.
var ErrInvalidRequest = errors.New("invalid endorsement request")

const maxPlatformFeeBps = 5000

// Validate checks structural and semantic well-formedness of a request and
// derives the canonical logical payload. Rules run in a fixed order and the
// first failure wins; there is no partial aggregation. Empty strings count as
// absent fields.
func Validate(req EndorsementRequest) (EndorsementData, error) {
	hasFeeBps := req.PlatformFeeBps != ""
	hasFeeReceiver := req.PlatformFeeReceiver != ""
	if hasFeeBps != hasFeeReceiver {
		return EndorsementData{}, fmt.Errorf("%w: platformFeeBps and platformFeeReceiver must be supplied together", ErrInvalidRequest)
	}

	var fee *PlatformFee
	if hasFeeBps {
		bps, ok := new(big.Int).SetString(req.PlatformFeeBps, 10)
		if !ok || bps.Sign() < 0 || bps.Cmp(big.NewInt(maxPlatformFeeBps)) > 0 {
			return EndorsementData{}, fmt.Errorf("%w: platformFeeBps must be an integer in [0, %d]", ErrInvalidRequest, maxPlatformFeeBps)
		}
		fee = &PlatformFee{Bps: uint16(bps.Uint64()), Receiver: req.PlatformFeeReceiver}
	}

	hasSendQty := req.SendQty != ""
	hasMaxSendQty := req.MaxSendQty != ""
	if hasSendQty && hasMaxSendQty {
		return EndorsementData{}, fmt.Errorf("%w: sendQty and maxSendQty are mutually exclusive", ErrInvalidRequest)
	}
	if hasSendQty || hasMaxSendQty {
		field, value := "sendQty", req.SendQty
		if hasMaxSendQty {
			field, value = "maxSendQty", req.MaxSendQty
		}
		// Parse only to confirm integer-ness; the string stays the value of
		// record so arbitrarily large token amounts lose no precision.
		if _, ok := new(big.Int).SetString(value, 10); !ok {
			return EndorsementData{}, fmt.Errorf("%w: %s must be an integer string", ErrInvalidRequest, field)
		}
		if req.SendToken == "" {
			return EndorsementData{}, fmt.Errorf("%w: sendToken is required when %s is specified", ErrInvalidRequest, field)
		}
	}

	return EndorsementData{
		RetailTrader:    req.RetailTrader,
		PlatformFee:     fee,
		SendToken:       req.SendToken,
		ReceiveToken:    req.ReceiveToken,
		SendQuantity:    req.SendQty,
		MaxSendQuantity: req.MaxSendQty,
	}, nil
}
