// Package keys generates, persists, and parses the authority keypair. The
// on-disk format is a JSON array of the 64 secret-key bytes; public keys are
// displayed base58 encoded.
package keys

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mr-tron/base58"
)

var ErrMalformedKeyFile = errors.New("malformed key file")

// Generate creates a fresh Ed25519 keypair from r (crypto/rand in
// production; tests may pass a deterministic reader).
func Generate(r io.Reader) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, nil, fmt.Errorf("generate keypair: %w", err)
	}
	return pub, priv, nil
}

// WriteFile persists the secret key to path as a JSON byte array, readable
// only by the owner.
func WriteFile(path string, priv ed25519.PrivateKey) error {
	if len(priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: secret key must be %d bytes", ErrMalformedKeyFile, ed25519.PrivateKeySize)
	}
	raw := make([]int, len(priv))
	for i, b := range priv {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadFile loads a secret key written by WriteFile.
func ReadFile(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKeyFile, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedKeyFile, ed25519.PrivateKeySize, len(raw))
	}
	priv := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range raw {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte value %d out of range", ErrMalformedKeyFile, v)
		}
		priv[i] = byte(v)
	}
	return priv, nil
}

// ParseSecretBase58 parses a base58-encoded 64-byte secret key.
func ParseSecretBase58(s string) (ed25519.PrivateKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}
	return ed25519.PrivateKey(b), nil
}

// ParsePublicBase58 parses a base58-encoded 32-byte public key.
func ParsePublicBase58(s string) (ed25519.PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}

// EncodePublicBase58 returns the base58 display form of a public key.
func EncodePublicBase58(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}
