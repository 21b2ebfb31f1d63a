// Package state is the core API for the blockchain and implements all
// the business rules and processing: mempool admission, mining, block
// acceptance, chain validation, and inclusion proofs.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/genesis"
	"github.com/solochain/solochain/foundation/blockchain/mempool"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events occur in
// the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the chain.
type Config struct {
	BeneficiaryID database.Address
	Genesis       genesis.Genesis
	Storage       database.Serializer
	Scheme        wallet.Scheme
	EvHandler     EventHandler
}

// State manages the blockchain. Admission, mining, and block
// application run under one exclusive-access discipline: a single
// writer at a time observes a consistent view of balances, nonces,
// mempool, and chain.
type State struct {
	mu sync.Mutex

	beneficiaryID database.Address
	genesis       genesis.Genesis
	scheme        wallet.Scheme
	evHandler     EventHandler

	db      *database.Database
	mempool *mempool.Mempool
}

// New constructs the state, loading and replay-validating any chain
// already present in storage. A storage with an invalid chain fails
// construction and nothing is committed.
func New(cfg Config) (*State, error) {
	if !cfg.BeneficiaryID.IsValid() {
		return nil, errors.New("beneficiary is not a valid address")
	}
	if cfg.Scheme == nil {
		return nil, errors.New("a signing scheme is required")
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Storage, cfg.Genesis.MiningReward, cfg.Scheme, ev)
	if err != nil {
		return nil, fmt.Errorf("loading chain: %w", err)
	}

	s := State{
		beneficiaryID: cfg.BeneficiaryID,
		genesis:       cfg.Genesis,
		scheme:        cfg.Scheme,
		evHandler:     ev,

		db:      db,
		mempool: mempool.New(),
	}

	return &s, nil
}

// Shutdown cleanly brings the state down, closing block storage.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Close()
	return nil
}

// addBlock runs the block through full validation and, only on
// success, applies it to the ledger and appends it to the chain. The
// caller must hold the state lock.
func (s *State) addBlock(block database.Block) error {
	return s.db.ValidateAndAccept(block)
}
