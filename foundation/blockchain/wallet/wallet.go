// Package wallet provides the signing capability the blockchain
// depends on: key generation, address derivation, signing, and
// signature verification. The ledger core never inspects key material;
// it only calls through these interfaces, so the signing backend is
// selected by name at construction time.
package wallet

import (
	"fmt"

	"github.com/solochain/solochain/foundation/blockchain/signature"
)

// Set of registered scheme names.
const (
	SchemeSecp256k1 = "secp256k1"
	SchemeSchnorr   = "schnorr"
	SchemeDigest    = "digest"
)

// KeyPair represents the behavior of a generated key: it can expose
// its public key bytes and sign a 32 byte message digest.
type KeyPair interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// Scheme represents a signing backend. Verify must be the exact
// inverse of KeyPair.Sign for genuine keypairs and reject forged or
// mismatched signatures.
type Scheme interface {
	Name() string
	Generate() (KeyPair, error)
	Verify(publicKey []byte, message []byte, sig []byte) bool
}

// SchemeByName returns the signing backend registered under the
// specified name.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case SchemeSecp256k1:
		return Secp256k1{}, nil
	case SchemeSchnorr:
		return Schnorr{}, nil
	case SchemeDigest:
		return Digest{}, nil
	}

	return nil, fmt.Errorf("unknown signing scheme %q", name)
}

// =============================================================================

// Wallet binds a keypair to the scheme that produced it.
type Wallet struct {
	scheme Scheme
	key    KeyPair
}

// Generate constructs a wallet with a fresh keypair from the scheme.
func Generate(scheme Scheme) (*Wallet, error) {
	key, err := scheme.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating %s keypair: %w", scheme.Name(), err)
	}

	return &Wallet{scheme: scheme, key: key}, nil
}

// FromKeyPair constructs a wallet around an existing keypair, such as
// one loaded from a key file.
func FromKeyPair(scheme Scheme, key KeyPair) *Wallet {
	return &Wallet{scheme: scheme, key: key}
}

// Scheme returns the signing backend for this wallet.
func (w *Wallet) Scheme() Scheme {
	return w.scheme
}

// PublicKey returns the raw public key bytes.
func (w *Wallet) PublicKey() []byte {
	return w.key.PublicKey()
}

// Address returns the hex digest address derived from the public key.
func (w *Wallet) Address() string {
	return AddressOf(w.key.PublicKey())
}

// Sign signs the specified message digest with the private key.
func (w *Wallet) Sign(message []byte) ([]byte, error) {
	return w.key.Sign(message)
}

// =============================================================================

// AddressOf derives the on-chain address for a public key: the hex
// encoded sha256 digest of the public key bytes. Addresses are
// self-certifying; anyone holding the public key can recompute them.
func AddressOf(publicKey []byte) string {
	return signature.HashBytes(publicKey)
}
