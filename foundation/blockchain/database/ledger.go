package database

import (
	"fmt"
)

// Ledger is the materialized balance and nonce state derived from
// replaying the chain. It carries no locking of its own: the owner
// serializes access, and speculative replay always works on a Clone so
// trial validation never aliases live state.
type Ledger struct {
	accounts map[Address]Account
}

// NewLedger constructs an empty ledger, the baseline every full chain
// replay starts from.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[Address]Account),
	}
}

// Clone makes a full copy of the ledger for what-if replay.
func (l *Ledger) Clone() *Ledger {
	accounts := make(map[Address]Account, len(l.accounts))
	for addr, account := range l.accounts {
		accounts[addr] = account
	}

	return &Ledger{accounts: accounts}
}

// Balance returns the current balance for the specified address.
func (l *Ledger) Balance(addr Address) uint64 {
	return l.accounts[addr].Balance
}

// NextNonce returns the nonce the next transaction from the specified
// address must carry.
func (l *Ledger) NextNonce(addr Address) uint64 {
	return l.accounts[addr].Nonce
}

// Accounts returns a copy of the full account set.
func (l *Ledger) Accounts() map[Address]Account {
	accounts := make(map[Address]Account, len(l.accounts))
	for addr, account := range l.accounts {
		accounts[addr] = account
	}

	return accounts
}

// ApplyTransaction performs the business logic for applying a
// transaction to the ledger. A rejected transaction leaves the ledger
// untouched: all checks run before any account is written.
func (l *Ledger) ApplyTransaction(tx Tx) error {
	if tx.Amount == 0 {
		return ErrInvalidAmount
	}

	if tx.IsCoinbase() {
		to := l.accounts[tx.Recipient]
		to.Balance += tx.Amount
		l.accounts[tx.Recipient] = to
		return nil
	}

	from := l.accounts[tx.Sender]

	if tx.Nonce != from.Nonce {
		return fmt.Errorf("transaction invalid, nonce out of order, got %d, exp %d", tx.Nonce, from.Nonce)
	}
	if from.Balance < tx.Amount {
		return fmt.Errorf("transaction invalid, insufficient funds, bal %d, needed %d", from.Balance, tx.Amount)
	}

	from.Balance -= tx.Amount
	from.Nonce++
	l.accounts[tx.Sender] = from

	to := l.accounts[tx.Recipient]
	to.Balance += tx.Amount
	l.accounts[tx.Recipient] = to

	return nil
}
