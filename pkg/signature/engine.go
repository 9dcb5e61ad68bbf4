// Package signature wraps the authority's Ed25519 keypair. The keypair is
// owned for the lifetime of the process and never serialized out; it is
// read-only after construction and therefore safe for unlimited concurrent
// readers.
package signature

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

var ErrInvalidKeySize = errors.New("invalid ed25519 key size")

// Engine signs canonical message bytes with a single long-lived keypair and
// verifies signatures against arbitrary public keys.
type Engine struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

func NewEngine(secret ed25519.PrivateKey) (*Engine, error) {
	if len(secret) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d", ErrInvalidKeySize, ed25519.PrivateKeySize, len(secret))
	}
	priv := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(priv, secret)
	return &Engine{
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// Sign produces the 64-byte Ed25519 signature over message. Deterministic
// given (secret key, message) and side-effect free.
func (e *Engine) Sign(message []byte) []byte {
	return ed25519.Sign(e.priv, message)
}

// PublicKey returns the engine's 32-byte public key.
func (e *Engine) PublicKey() ed25519.PublicKey {
	return e.pub
}

// Verify reports whether sig is a valid Ed25519 signature of message under
// pub. It never panics: a malformed key or signature length verifies false.
func Verify(message, sig, pub []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}
