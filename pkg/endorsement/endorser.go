package endorsement

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/DFlowProtocol/endorsement-server/pkg/signature"
)

const endorsementIDBytes = 8

// Config assembles an Authority. Engine and Codec are required; Gate and Rand
// are optional (no gate means no rate limiting, Rand defaults to crypto/rand).
type Config struct {
	Engine *signature.Engine
	Codec  Canonicalizer
	// ExpirationTTL is added to the request's floor(now) to produce the
	// endorsement's expiration. Sub-second precision is discarded.
	ExpirationTTL time.Duration
	Gate          Gate
	Rand          io.Reader
}

// Authority issues endorsements and approves payment-in-lieu tokens. It holds
// no mutable state; every operation is a pure computation over its inputs,
// the immutable keypair, and the configured TTL, so concurrent calls need no
// coordination.
type Authority struct {
	engine     *signature.Engine
	codec      Canonicalizer
	ttlSeconds int64
	gate       Gate
	rand       io.Reader
}

func NewAuthority(cfg Config) (*Authority, error) {
	if cfg.Engine == nil {
		return nil, errors.New("endorsement: signature engine is required")
	}
	if cfg.Codec == nil {
		return nil, errors.New("endorsement: canonicalizer is required")
	}
	ttl := int64(cfg.ExpirationTTL / time.Second)
	if ttl <= 0 {
		return nil, errors.New("endorsement: expiration TTL must be at least one second")
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Reader
	}
	return &Authority{
		engine:     cfg.Engine,
		codec:      cfg.Codec,
		ttlSeconds: ttl,
		gate:       cfg.Gate,
		rand:       rnd,
	}, nil
}

// PublicKey returns the authority's public key, against which issued
// endorsement and approval signatures verify.
func (a *Authority) PublicKey() []byte {
	return a.engine.PublicKey()
}

// MaybeEndorse turns a request into a signed endorsement. The gate is
// consulted before any work begins; a denied request short-circuits to a
// RateLimitExceeded result. A request that fails validation surfaces as an
// ErrInvalidRequest error, not a rejection result. now is explicit so the
// decision is reproducible.
func (a *Authority) MaybeEndorse(req EndorsementRequest, now time.Time) (EndorseResult, error) {
	if a.gate != nil && !a.gate.Allow() {
		return EndorseResult{Reason: ReasonRateLimitExceeded}, nil
	}

	var id [endorsementIDBytes]byte
	if _, err := io.ReadFull(a.rand, id[:]); err != nil {
		return EndorseResult{}, fmt.Errorf("endorsement: generate id: %w", err)
	}
	expirationTimeUTC := now.Unix() + a.ttlSeconds

	data, err := Validate(req)
	if err != nil {
		return EndorseResult{}, err
	}

	encodedData, err := a.codec.EncodeEndorsementData(data)
	if err != nil {
		return EndorseResult{}, fmt.Errorf("endorsement: encode data: %w", err)
	}
	idB64 := base64.StdEncoding.EncodeToString(id[:])
	msg, err := a.codec.EncodeEndorsementMessage(idB64, expirationTimeUTC, encodedData)
	if err != nil {
		return EndorseResult{}, fmt.Errorf("endorsement: encode message: %w", err)
	}

	sig := a.engine.Sign(msg)
	return EndorseResult{
		Endorsed: true,
		Endorsement: &Endorsement{
			Signature:         base64.StdEncoding.EncodeToString(sig),
			ID:                idB64,
			ExpirationTimeUTC: expirationTimeUTC,
			Data:              base64.StdEncoding.EncodeToString(encodedData),
		},
	}, nil
}
