package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
)

// Digest is a placeholder signing backend for environments where no
// asymmetric scheme is wanted: the "public key" is the secret itself
// and a signature is sha256(secret || message). It provides no
// security and exists so the chain can run with deterministic,
// dependency-free signatures in demos and tests.
type Digest struct{}

// Name returns the registered scheme name.
func (Digest) Name() string {
	return SchemeDigest
}

// Generate constructs a new 32 byte random secret.
func (Digest) Generate() (KeyPair, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}

	return digestKey{secret: secret}, nil
}

// Verify recomputes the keyed digest and compares it to the signature.
func (Digest) Verify(publicKey []byte, message []byte, sig []byte) bool {
	h := sha256.New()
	h.Write(publicKey)
	h.Write(message)

	return subtle.ConstantTimeCompare(h.Sum(nil), sig) == 1
}

// =============================================================================

type digestKey struct {
	secret []byte
}

func (k digestKey) PublicKey() []byte {
	return k.secret
}

func (k digestKey) Sign(message []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(k.secret)
	h.Write(message)

	return h.Sum(nil), nil
}
