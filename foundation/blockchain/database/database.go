// Package database maintains the blockchain: the canonical chain of
// blocks, the ledger state derived from replaying it, and the
// persistence of blocks through a pluggable serializer.
package database

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// blockCacheSize bounds the number of serialized block records kept
// hot for query traffic.
const blockCacheSize = 64

// ErrBlockNotFound is returned when a requested block height is beyond
// the current chain.
var ErrBlockNotFound = errors.New("block not found")

// Database manages the chain and the account state derived from it.
// It is the sole owner of both; mutation happens only through
// ValidateAndAccept.
type Database struct {
	mu sync.RWMutex

	chain  []Block
	ledger *Ledger

	miningReward uint64
	scheme       wallet.Scheme

	serializer Serializer
	cache      *lru.Cache[uint64, BlockData]
}

// New constructs the database and loads the chain from the serializer,
// re-deriving the ledger by replaying every stored block from an empty
// baseline. If any block fails validation the load is rejected
// wholesale and no database is returned.
func New(serializer Serializer, miningReward uint64, scheme wallet.Scheme, evHandler func(v string, args ...any)) (*Database, error) {
	cache, err := lru.New[uint64, BlockData](blockCacheSize)
	if err != nil {
		return nil, err
	}

	db := Database{
		ledger:       NewLedger(),
		miningReward: miningReward,
		scheme:       scheme,
		serializer:   serializer,
		cache:        cache,
	}

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, fmt.Errorf("reading stored block: %w", err)
		}

		block := ToBlock(blockData)

		evHandler("database: New: replaying stored block[%d]", block.Header.Height)

		var prev *Block
		if len(db.chain) > 0 {
			prev = &db.chain[len(db.chain)-1]
		}

		if err := ValidateNextBlock(block, PrevHashFor(prev), uint64(len(db.chain)), db.ledger, miningReward, scheme); err != nil {
			return nil, fmt.Errorf("stored block[%d] failed validation: %w", block.Header.Height, err)
		}

		db.chain = append(db.chain, block)
	}

	evHandler("database: New: loaded chain of %d blocks", len(db.chain))

	return &db, nil
}

// Close closes the underlying block storage.
func (db *Database) Close() {
	db.serializer.Close()
}

// ChainLength returns the number of blocks in the chain, which is also
// the height the next block must carry.
func (db *Database) ChainLength() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return uint64(len(db.chain))
}

// LatestBlock returns the current tip. The second return is false for
// an empty chain.
func (db *Database) LatestBlock() (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.chain) == 0 {
		return Block{}, false
	}

	return db.chain[len(db.chain)-1], true
}

// TipHash returns the prev-hash value the next block must carry.
func (db *Database) TipHash() string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.chain) == 0 {
		return PrevHashFor(nil)
	}

	return PrevHashFor(&db.chain[len(db.chain)-1])
}

// CloneLedger makes a copy of the current ledger state for speculative
// replay.
func (db *Database) CloneLedger() *Ledger {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.ledger.Clone()
}

// Balance returns the balance for the specified address.
func (db *Database) Balance(addr Address) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.ledger.Balance(addr)
}

// NextNonce returns the nonce the next confirmed transaction from the
// specified address must carry.
func (db *Database) NextNonce(addr Address) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.ledger.NextNonce(addr)
}

// Accounts returns a copy of the full account set.
func (db *Database) Accounts() map[Address]Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.ledger.Accounts()
}

// ValidateAndAccept runs the full structural validation for the block
// against a clone of live ledger state and, only on success, persists
// the block, adopts the replayed ledger, and appends the block to the
// chain. A failed block changes nothing.
func (db *Database) ValidateAndAccept(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var prev *Block
	if len(db.chain) > 0 {
		prev = &db.chain[len(db.chain)-1]
	}

	// The clone starts from live state, so the replayed result is
	// exactly what applying the block to live state must produce.
	ledger := db.ledger.Clone()
	if err := ValidateNextBlock(block, PrevHashFor(prev), uint64(len(db.chain)), ledger, db.miningReward, db.scheme); err != nil {
		return err
	}

	blockData := NewBlockData(block)
	if err := db.serializer.Write(blockData); err != nil {
		return fmt.Errorf("persisting block[%d]: %w", block.Header.Height, err)
	}

	db.ledger = ledger
	db.chain = append(db.chain, block)
	db.cache.Add(block.Header.Height, blockData)

	return nil
}

// GetBlock returns the block at the specified height from the
// in-memory chain.
func (db *Database) GetBlock(height uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if height >= uint64(len(db.chain)) {
		return Block{}, ErrBlockNotFound
	}

	return db.chain[height], nil
}

// GetBlockData returns the serialized record for the block at the
// specified height, served from the LRU cache when hot.
func (db *Database) GetBlockData(height uint64) (BlockData, error) {
	if blockData, ok := db.cache.Get(height); ok {
		return blockData, nil
	}

	block, err := db.GetBlock(height)
	if err != nil {
		return BlockData{}, err
	}

	blockData := NewBlockData(block)
	db.cache.Add(height, blockData)

	return blockData, nil
}

// Chain returns a copy of the block sequence for iteration, such as
// the full-chain validation replay.
func (db *Database) Chain() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	chain := make([]Block, len(db.chain))
	copy(chain, db.chain)

	return chain
}
