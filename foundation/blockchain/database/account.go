package database

import (
	"errors"

	"github.com/solochain/solochain/foundation/blockchain/signature"
)

// Coinbase is the reserved sender for minting transactions. The value
// sits outside the hex alphabet and length of real addresses, so it
// can never collide with one.
const Coinbase Address = "COINBASE"

// Address represents an account on the chain: the hex digest of the
// owning public key, or the Coinbase sentinel.
type Address string

// ToAddress converts a string to an Address and validates it is a
// properly formatted hex digest.
func ToAddress(v string) (Address, error) {
	a := Address(v)
	if !a.IsValid() {
		return "", errors.New("invalid address format")
	}

	return a, nil
}

// IsValid verifies the underlying data is a fixed-length hex digest.
// The Coinbase sentinel is not a valid address.
func (a Address) IsValid() bool {
	return signature.IsHash(string(a))
}

// IsCoinbase reports whether the address is the minting sentinel.
func (a Address) IsCoinbase() bool {
	return a == Coinbase
}

// =============================================================================

// Account represents the ledger information for an individual address:
// its spendable balance and the nonce its next transaction must carry.
type Account struct {
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}
