package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Secp256k1 is the production signing backend: ECDSA over the
// secp256k1 curve. Public keys are the 65 byte uncompressed form and
// signatures the 65 byte [R || S || V] form.
type Secp256k1 struct{}

// Name returns the registered scheme name.
func (Secp256k1) Name() string {
	return SchemeSecp256k1
}

// Generate constructs a new secp256k1 keypair.
func (Secp256k1) Generate() (KeyPair, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return secp256k1Key{privateKey: privateKey}, nil
}

// Verify checks the signature was produced over the message by the
// private key matching the specified public key bytes.
func (Secp256k1) Verify(publicKey []byte, message []byte, sig []byte) bool {
	if len(sig) != crypto.SignatureLength {
		return false
	}

	// VerifySignature takes the 64 byte [R || S] portion.
	return crypto.VerifySignature(publicKey, message, sig[:crypto.RecoveryIDOffset])
}

// LoadSecp256k1 constructs a wallet from an ECDSA private key stored
// in the specified file.
func LoadSecp256k1(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}

	return FromKeyPair(Secp256k1{}, secp256k1Key{privateKey: privateKey}), nil
}

// SaveSecp256k1 writes the wallet's private key to the specified file.
// The wallet must have been produced by the secp256k1 scheme.
func SaveSecp256k1(path string, w *Wallet) error {
	key, ok := w.key.(secp256k1Key)
	if !ok {
		return fmt.Errorf("wallet scheme %q does not use ECDSA key files", w.scheme.Name())
	}

	return crypto.SaveECDSA(path, key.privateKey)
}

// =============================================================================

type secp256k1Key struct {
	privateKey *ecdsa.PrivateKey
}

func (k secp256k1Key) PublicKey() []byte {
	return crypto.FromECDSAPub(&k.privateKey.PublicKey)
}

func (k secp256k1Key) Sign(message []byte) ([]byte, error) {
	return crypto.Sign(message, k.privateKey)
}
