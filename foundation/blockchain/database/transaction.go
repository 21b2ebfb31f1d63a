package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/solochain/solochain/foundation/blockchain/signature"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// ErrInvalidAmount is returned for any transaction that does not move
// a positive amount.
var ErrInvalidAmount = errors.New("transaction amount must be greater than zero")

// Tx is the transactional information between two parties. The struct
// field order is the canonical form every hash and signature is
// computed over.
type Tx struct {
	Sender    Address `json:"sender"`    // Address of the paying account, or the Coinbase sentinel.
	Recipient Address `json:"recipient"` // Address receiving the amount.
	Amount    uint64  `json:"amount"`    // Monetary value moved by this transaction.
	Nonce     uint64  `json:"nonce"`     // Per-sender sequence number, strictly in order.
	TimeStamp uint64  `json:"timestamp"` // The time the transaction was created.
	PubKey    string  `json:"pubkey"`    // Hex encoded public key of the sender; empty for coinbase.
	Sig       string  `json:"signature"` // Hex encoded signature over the message digest; empty for coinbase.
}

// txMessage is the unsigned view of a transaction: every field except
// the signature. Its digest is the message the sender signs.
type txMessage struct {
	Sender    Address `json:"sender"`
	Recipient Address `json:"recipient"`
	Amount    uint64  `json:"amount"`
	Nonce     uint64  `json:"nonce"`
	TimeStamp uint64  `json:"timestamp"`
	PubKey    string  `json:"pubkey"`
}

// NewTx constructs a signed transaction from the specified wallet. The
// caller supplies the nonce, normally the lowest nonce not yet claimed
// by a pending transaction from this sender.
func NewTx(w *wallet.Wallet, recipient Address, amount uint64, nonce uint64) (Tx, error) {
	if !recipient.IsValid() {
		return Tx{}, errors.New("recipient is not properly formatted")
	}
	if amount == 0 {
		return Tx{}, ErrInvalidAmount
	}

	tx := Tx{
		Sender:    Address(w.Address()),
		Recipient: recipient,
		Amount:    amount,
		Nonce:     nonce,
		TimeStamp: uint64(time.Now().UTC().Unix()),
		PubKey:    hexutil.Encode(w.PublicKey()),
	}

	msg, err := tx.MessageDigest()
	if err != nil {
		return Tx{}, err
	}

	sig, err := w.Sign(msg)
	if err != nil {
		return Tx{}, fmt.Errorf("signing transaction: %w", err)
	}
	tx.Sig = hexutil.Encode(sig)

	return tx, nil
}

// NewCoinbaseTx constructs a minting transaction. Coinbase
// transactions carry no key material and are exempt from signature and
// nonce checks; block structure rules keep them out of the mempool.
func NewCoinbaseTx(recipient Address, amount uint64, timeStamp uint64) Tx {
	return Tx{
		Sender:    Coinbase,
		Recipient: recipient,
		Amount:    amount,
		Nonce:     0,
		TimeStamp: timeStamp,
	}
}

// IsCoinbase reports whether the transaction mints new funds.
func (tx Tx) IsCoinbase() bool {
	return tx.Sender.IsCoinbase()
}

// TxID returns the unique id for the transaction: the digest of its
// canonical form including the signature.
func (tx Tx) TxID() string {
	return signature.Hash(tx)
}

// MessageDigest returns the 32 byte digest of the transaction's
// canonical form without the signature. This is the message the
// signing backends sign and verify.
func (tx Tx) MessageDigest() ([]byte, error) {
	msg := txMessage{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Nonce:     tx.Nonce,
		TimeStamp: tx.TimeStamp,
		PubKey:    tx.PubKey,
	}

	return signature.Digest(msg)
}

// Verify checks the transaction is well formed and its signature binds
// the claimed sender to the actual signing key. Coinbase transactions
// pass unconditionally once the amount is checked.
func (tx Tx) Verify(scheme wallet.Scheme) error {
	if tx.Amount == 0 {
		return ErrInvalidAmount
	}

	if tx.IsCoinbase() {
		return nil
	}

	if !tx.Sender.IsValid() {
		return errors.New("sender is not properly formatted")
	}
	if tx.PubKey == "" || tx.Sig == "" {
		return errors.New("transaction is missing signature material")
	}

	pubKey, err := hexutil.Decode(tx.PubKey)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}
	sig, err := hexutil.Decode(tx.Sig)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	// The sender address must be derived from the public key that
	// signed the message. This makes the sender self-certifying.
	if wallet.AddressOf(pubKey) != string(tx.Sender) {
		return errors.New("sender does not match the signing key")
	}

	msg, err := tx.MessageDigest()
	if err != nil {
		return err
	}

	if !scheme.Verify(pubKey, msg, sig) {
		return errors.New("invalid signature")
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%d", tx.Sender, tx.Nonce)
}
