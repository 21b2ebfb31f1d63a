package wallet

import (
	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/group/edwards25519"
	"go.dedis.ch/kyber/v4/sign/schnorr"
)

// suite is the Ed25519 group every schnorr keypair operates in.
var suite = edwards25519.NewBlakeSHA256Ed25519()

// Schnorr is an alternate signing backend: Schnorr signatures over the
// Ed25519 group. Public keys are 32 byte marshaled group points.
type Schnorr struct{}

// Name returns the registered scheme name.
func (Schnorr) Name() string {
	return SchemeSchnorr
}

// Generate constructs a new schnorr keypair.
func (Schnorr) Generate() (KeyPair, error) {
	private := suite.Scalar().Pick(suite.RandomStream())
	public := suite.Point().Mul(private, nil)

	publicKey, err := public.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return schnorrKey{private: private, publicKey: publicKey}, nil
}

// Verify checks the signature was produced over the message by the
// private scalar matching the specified public point bytes.
func (Schnorr) Verify(publicKey []byte, message []byte, sig []byte) bool {
	public := suite.Point()
	if err := public.UnmarshalBinary(publicKey); err != nil {
		return false
	}

	return schnorr.Verify(suite, public, message, sig) == nil
}

// =============================================================================

type schnorrKey struct {
	private   kyber.Scalar
	publicKey []byte
}

func (k schnorrKey) PublicKey() []byte {
	return k.publicKey
}

func (k schnorrKey) Sign(message []byte) ([]byte, error) {
	return schnorr.Sign(suite, k.private, message)
}
