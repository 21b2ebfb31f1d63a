package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/solochain/solochain/foundation/blockchain/database"
)

// ErrChainAlreadyExists is returned when genesis creation is attempted
// on a chain that already has blocks.
var ErrChainAlreadyExists = errors.New("chain already has a genesis block")

// MineNextBlock draws the oldest pending transactions from the
// mempool, prepends the coinbase reward for the beneficiary, and
// performs the proof-of-work search for the next block. On success the
// block has been validated and applied and exactly the mined
// transactions are removed from the mempool; on failure the mempool is
// left untouched. The context cancels the nonce search.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	height := s.db.ChainLength()
	if height == 0 {
		return database.Block{}, errors.New("chain has no genesis block")
	}

	picked := s.mempool.PickOldest(s.genesis.TransPerBlock)

	coinbase := database.NewCoinbaseTx(s.beneficiaryID, s.genesis.MiningReward, uint64(time.Now().UTC().Unix()))
	trans := append([]database.Tx{coinbase}, picked...)

	s.evHandler("state: MineNextBlock: MINING: height[%d] txs[%d]", height, len(trans))

	block, err := database.POW(ctx, height, s.db.TipHash(), s.genesis.Difficulty, trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	if err := s.addBlock(block); err != nil {
		return database.Block{}, fmt.Errorf("mined block rejected: %w", err)
	}

	s.mempool.Remove(database.TxIDs(picked))

	s.evHandler("state: MineNextBlock: MINED: block[%s]", block.Hash())

	return block, nil
}

// MineGenesis builds the height 0 block from the configured
// allocations, one coinbase mint per entry, mines it with the same
// proof-of-work search, and adds it through the normal validation
// path. Genesis is not a bypass of validation, only a special-cased
// transaction set.
func (s *State) MineGenesis(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.ChainLength() != 0 {
		return database.Block{}, ErrChainAlreadyExists
	}

	addresses := make([]string, 0, len(s.genesis.Allocations))
	for addr := range s.genesis.Allocations {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	now := uint64(time.Now().UTC().Unix())

	trans := make([]database.Tx, 0, len(addresses))
	for _, addr := range addresses {
		recipient, err := database.ToAddress(addr)
		if err != nil {
			return database.Block{}, fmt.Errorf("allocation %q: %w", addr, err)
		}
		trans = append(trans, database.NewCoinbaseTx(recipient, s.genesis.Allocations[addr], now))
	}

	s.evHandler("state: MineGenesis: MINING: allocations[%d]", len(trans))

	block, err := database.POW(ctx, 0, s.db.TipHash(), s.genesis.Difficulty, trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	if err := s.addBlock(block); err != nil {
		return database.Block{}, fmt.Errorf("genesis block rejected: %w", err)
	}

	s.evHandler("state: MineGenesis: MINED: block[%s]", block.Hash())

	return block, nil
}
