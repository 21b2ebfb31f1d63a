package state

import (
	"errors"
	"fmt"

	"github.com/solochain/solochain/foundation/blockchain/database"
)

// ErrCoinbaseNotAllowed is returned when a minting transaction is
// submitted through the public mempool.
var ErrCoinbaseNotAllowed = errors.New("coinbase transactions cannot be submitted")

// SubmitWalletTransaction accepts a transaction from a wallet for
// inclusion into the mempool. The candidate is admitted only if,
// starting from a copy of live ledger state, every already pending
// transaction and then the candidate replay cleanly — so nonces stay
// in strict per-sender sequence across the pool and a balance cannot
// be spent twice while pending.
func (s *State) SubmitWalletTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SubmitWalletTransaction: tx[%s]", tx)

	if err := tx.Verify(s.scheme); err != nil {
		return fmt.Errorf("transaction failed verification: %w", err)
	}

	if tx.IsCoinbase() {
		return ErrCoinbaseNotAllowed
	}

	if s.mempool.Contains(tx.TxID()) {
		return fmt.Errorf("transaction %s already pending", tx.TxID())
	}

	ledger := s.db.CloneLedger()
	for _, pending := range s.mempool.All() {
		if err := ledger.ApplyTransaction(pending); err != nil {
			return fmt.Errorf("pending tx[%s] no longer replays: %w", pending, err)
		}
	}
	if err := ledger.ApplyTransaction(tx); err != nil {
		return fmt.Errorf("transaction does not replay against pending state: %w", err)
	}

	return s.mempool.Add(tx)
}

// NextNonce returns the nonce the next confirmed transaction from the
// specified address must carry.
func (s *State) NextNonce(addr database.Address) uint64 {
	return s.db.NextNonce(addr)
}

// NextNonceWithMempool returns the lowest nonce for the address not
// already claimed by a pending transaction, letting a sender enqueue
// several transactions in one session without colliding.
func (s *State) NextNonceWithMempool(addr database.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := s.db.NextNonce(addr)

	claimed := make(map[uint64]struct{})
	for _, tx := range s.mempool.All() {
		if tx.Sender == addr {
			claimed[tx.Nonce] = struct{}{}
		}
	}

	for {
		if _, taken := claimed[nonce]; !taken {
			return nonce
		}
		nonce++
	}
}
