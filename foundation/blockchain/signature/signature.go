// Package signature provides the canonical hashing support every other
// blockchain package depends on. A value's canonical form is its JSON
// encoding with the field order fixed by the type definition;
// re-encoding with a different field order or whitespace convention is
// a compatibility break for every hash and signature in the chain.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros. It is the prev-hash
// sentinel for the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLength is the number of hex digits in a digest string.
const HashLength = 64

// Hash returns the hex encoded sha256 digest of the canonical form of
// the specified value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// Digest returns the raw sha256 digest of the canonical form of the
// specified value. This is the 32 byte message format the signing
// backends operate on.
func Digest(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}

// HashBytes returns the hex encoded sha256 digest of raw bytes.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IsHash verifies whether the specified string is a fixed-length hex
// digest. The coinbase sentinel intentionally fails this check.
func IsHash(v string) bool {
	if len(v) != HashLength {
		return false
	}

	for _, c := range []byte(v) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
