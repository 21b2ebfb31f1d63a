package state

import (
	"fmt"

	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/genesis"
	"github.com/solochain/solochain/foundation/blockchain/merkle"
)

// RetrieveGenesis returns the chain configuration.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBeneficiary returns the address mining rewards are paid to.
func (s *State) RetrieveBeneficiary() database.Address {
	return s.beneficiaryID
}

// RetrieveBalance returns the confirmed balance for the specified
// address.
func (s *State) RetrieveBalance(addr database.Address) uint64 {
	return s.db.Balance(addr)
}

// RetrieveAccounts returns a copy of the full confirmed account set.
func (s *State) RetrieveAccounts() map[database.Address]database.Account {
	return s.db.Accounts()
}

// RetrieveMempool returns a copy of the pending transactions in
// admission order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.All()
}

// RetrieveChainLength returns the number of blocks in the chain.
func (s *State) RetrieveChainLength() uint64 {
	return s.db.ChainLength()
}

// RetrieveLatestBlock returns the current tip. The second return is
// false for an empty chain.
func (s *State) RetrieveLatestBlock() (database.Block, bool) {
	return s.db.LatestBlock()
}

// RetrieveBlock returns the block at the specified height.
func (s *State) RetrieveBlock(height uint64) (database.Block, error) {
	return s.db.GetBlock(height)
}

// RetrieveBlockData returns the serialized record for the block at the
// specified height.
func (s *State) RetrieveBlockData(height uint64) (database.BlockData, error) {
	return s.db.GetBlockData(height)
}

// =============================================================================

// Validate independently re-derives ledger state from an empty
// baseline by replaying the entire chain from height 0, re-checking
// every structural rule per block. Any altered byte in any block's
// transactions changes a txid, breaks the merkle commitment, and fails
// this replay.
func (s *State) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := database.NewLedger()

	var prev *database.Block
	for i, block := range s.db.Chain() {
		if err := database.ValidateNextBlock(block, database.PrevHashFor(prev), uint64(i), ledger, s.genesis.MiningReward, s.scheme); err != nil {
			return fmt.Errorf("block[%d] failed validation: %w", i, err)
		}

		b := block
		prev = &b
	}

	return nil
}

// TransactionProof produces the merkle inclusion proof for the
// specified transaction id within the block at the specified height,
// along with the block's committed root to verify against.
func (s *State) TransactionProof(height uint64, txID string) ([]merkle.ProofStep, string, error) {
	block, err := s.db.GetBlock(height)
	if err != nil {
		return nil, "", err
	}

	proof, err := merkle.Proof(database.TxIDs(block.Trans), txID)
	if err != nil {
		return nil, "", fmt.Errorf("tx %s in block %d: %w", txID, height, err)
	}

	return proof, block.Header.MerkleRoot, nil
}
