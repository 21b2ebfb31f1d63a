// Package mempool maintains the pool of transactions waiting to be
// mined. The pool preserves admission order: blocks draw the oldest
// transactions first, and admission-time replay happens in this order.
package mempool

import (
	"fmt"
	"sync"

	"github.com/solochain/solochain/foundation/blockchain/database"
)

// Mempool represents an ordered cache of transactions not yet
// confirmed into a block, keyed for duplicate detection by txid.
type Mempool struct {
	mu    sync.RWMutex
	pool  []database.Tx
	index map[string]struct{}
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{
		index: make(map[string]struct{}),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Contains reports whether a transaction with the specified id is
// already pending.
func (mp *Mempool) Contains(txID string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.index[txID]
	return exists
}

// Add appends a transaction to the pool. A transaction whose id is
// already pending is rejected.
func (mp *Mempool) Add(tx database.Tx) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txID := tx.TxID()
	if _, exists := mp.index[txID]; exists {
		return fmt.Errorf("transaction %s already in mempool", txID)
	}

	mp.pool = append(mp.pool, tx)
	mp.index[txID] = struct{}{}

	return nil
}

// All returns a copy of the pending transactions in admission order.
func (mp *Mempool) All() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Tx, len(mp.pool))
	copy(txs, mp.pool)

	return txs
}

// PickOldest returns up to howMany transactions in admission order. A
// non-positive howMany returns everything.
func (mp *Mempool) PickOldest(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany <= 0 || howMany > len(mp.pool) {
		howMany = len(mp.pool)
	}

	txs := make([]database.Tx, howMany)
	copy(txs, mp.pool[:howMany])

	return txs
}

// Remove drops the transactions with the specified ids from the pool,
// preserving the order of the remainder.
func (mp *Mempool) Remove(txIDs []string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	drop := make(map[string]struct{}, len(txIDs))
	for _, id := range txIDs {
		drop[id] = struct{}{}
	}

	keep := mp.pool[:0]
	for _, tx := range mp.pool {
		id := tx.TxID()
		if _, gone := drop[id]; gone {
			delete(mp.index, id)
			continue
		}
		keep = append(keep, tx)
	}
	mp.pool = keep
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
	mp.index = make(map[string]struct{})
}
