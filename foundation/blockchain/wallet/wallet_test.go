package wallet_test

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/solochain/solochain/foundation/blockchain/signature"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_SchemeRoundTrip(t *testing.T) {
	schemes := []string{wallet.SchemeSecp256k1, wallet.SchemeSchnorr, wallet.SchemeDigest}

	t.Log("Given the need to sign and verify with every backend.")
	{
		for testID, name := range schemes {
			t.Logf("\tTest %d:\tWhen handling the %s scheme.", testID, name)
			{
				scheme, err := wallet.SchemeByName(name)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to look up the scheme: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to look up the scheme.", success, testID)

				w, err := wallet.Generate(scheme)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to generate a keypair: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to generate a keypair.", success, testID)

				msg := sha256.Sum256([]byte("transfer 60 to bob"))

				sig, err := w.Sign(msg[:])
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to sign a message: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to sign a message.", success, testID)

				if !scheme.Verify(w.PublicKey(), msg[:], sig) {
					t.Fatalf("\t%s\tTest %d:\tShould verify a genuine signature.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould verify a genuine signature.", success, testID)

				other := sha256.Sum256([]byte("transfer 6000 to mallory"))
				if scheme.Verify(w.PublicKey(), other[:], sig) {
					t.Fatalf("\t%s\tTest %d:\tShould reject a signature over different data.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject a signature over different data.", success, testID)

				w2, err := wallet.Generate(scheme)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to generate a second keypair: %v", failed, testID, err)
				}
				if scheme.Verify(w2.PublicKey(), msg[:], sig) {
					t.Fatalf("\t%s\tTest %d:\tShould reject a signature against a different key.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject a signature against a different key.", success, testID)
			}
		}
	}
}

func Test_AddressDerivation(t *testing.T) {
	scheme, err := wallet.SchemeByName(wallet.SchemeSecp256k1)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to look up the scheme: %v", failed, err)
	}

	w, err := wallet.Generate(scheme)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a keypair: %v", failed, err)
	}

	addr := w.Address()
	if !signature.IsHash(addr) {
		t.Fatalf("\t%s\tShould derive a fixed-length hex address, got %q.", failed, addr)
	}
	t.Logf("\t%s\tShould derive a fixed-length hex address.", success)

	if addr != wallet.AddressOf(w.PublicKey()) {
		t.Fatalf("\t%s\tShould derive the same address from the public key bytes.", failed)
	}
	t.Logf("\t%s\tShould derive the same address from the public key bytes.", success)
}

func Test_KeyFileRoundTrip(t *testing.T) {
	scheme, err := wallet.SchemeByName(wallet.SchemeSecp256k1)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to look up the scheme: %v", failed, err)
	}

	w, err := wallet.Generate(scheme)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a keypair: %v", failed, err)
	}

	path := filepath.Join(t.TempDir(), "miner.ecdsa")
	if err := wallet.SaveSecp256k1(path, w); err != nil {
		t.Fatalf("\t%s\tShould be able to save the key file: %v", failed, err)
	}
	t.Logf("\t%s\tShould be able to save the key file.", success)

	w2, err := wallet.LoadSecp256k1(path)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the key file: %v", failed, err)
	}

	if w2.Address() != w.Address() {
		t.Fatalf("\t%s\tShould load the same identity: exp %s, got %s.", failed, w.Address(), w2.Address())
	}
	t.Logf("\t%s\tShould load the same identity.", success)
}
