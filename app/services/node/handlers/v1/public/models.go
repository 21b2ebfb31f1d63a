package public

import (
	"github.com/solochain/solochain/business/sys/validate"
	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/merkle"
)

// submitTx represents a signed transaction submitted over the wire.
type submitTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"required,gt=0"`
	Nonce     uint64 `json:"nonce"`
	TimeStamp uint64 `json:"timestamp"`
	PubKey    string `json:"pubkey" validate:"required"`
	Sig       string `json:"signature" validate:"required"`
}

// Validate checks the submitted fields against their declared tags.
func (stx submitTx) Validate() error {
	return validate.Check(stx)
}

// toDatabaseTx converts the wire form into the database form.
func toDatabaseTx(stx submitTx) database.Tx {
	return database.Tx{
		Sender:    database.Address(stx.Sender),
		Recipient: database.Address(stx.Recipient),
		Amount:    stx.Amount,
		Nonce:     stx.Nonce,
		TimeStamp: stx.TimeStamp,
		PubKey:    stx.PubKey,
		Sig:       stx.Sig,
	}
}

// info represents the view of a single account.
type info struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// actInfo represents the view of the account list.
type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Accounts    []info `json:"accounts"`
}

// nonceInfo represents the next usable nonce for an account.
type nonceInfo struct {
	Account string `json:"account"`
	Nonce   uint64 `json:"nonce"`
}

// proofInfo represents a merkle inclusion proof for a committed
// transaction.
type proofInfo struct {
	TxID       string             `json:"txid"`
	Height     uint64             `json:"height"`
	MerkleRoot string             `json:"merkle_root"`
	Proof      []merkle.ProofStep `json:"proof"`
}
