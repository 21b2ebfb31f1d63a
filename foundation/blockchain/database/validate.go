package database

import (
	"fmt"

	"github.com/solochain/solochain/foundation/blockchain/merkle"
	"github.com/solochain/solochain/foundation/blockchain/signature"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
)

// ValidateNextBlock checks a block is structurally valid as the next
// block of a chain whose tip hash and length are specified, and
// replays its transactions into the supplied ledger. Callers pass a
// clone of live state for trial validation; the replay mutates the
// ledger, so a failed block must never be validated directly against
// live state.
func ValidateNextBlock(b Block, prevHash string, chainLength uint64, ledger *Ledger, miningReward uint64, scheme wallet.Scheme) error {
	if b.Header.Height != chainLength {
		return fmt.Errorf("block is not the next height, got %d, exp %d", b.Header.Height, chainLength)
	}

	if b.Header.PrevHash != prevHash {
		return fmt.Errorf("prev hash does not match our tip, got %s, exp %s", b.Header.PrevHash, prevHash)
	}

	if root := merkle.Root(TxIDs(b.Trans)); root != b.Header.MerkleRoot {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", root, b.Header.MerkleRoot)
	}

	hash := b.Hash()
	if !IsHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("hash %s does not solve the work problem at difficulty %d", hash, b.Header.Difficulty)
	}

	if err := validateCoinbasePlacement(b, miningReward); err != nil {
		return err
	}

	for _, tx := range b.Trans {
		if err := tx.Verify(scheme); err != nil {
			return fmt.Errorf("tx[%s] failed verification: %w", tx, err)
		}
	}

	for _, tx := range b.Trans {
		if err := ledger.ApplyTransaction(tx); err != nil {
			return fmt.Errorf("tx[%s] failed replay: %w", tx, err)
		}
	}

	return nil
}

// validateCoinbasePlacement enforces where minting transactions may
// appear: genesis is all coinbase, every later block carries exactly
// one coinbase first, paying exactly the configured reward.
func validateCoinbasePlacement(b Block, miningReward uint64) error {
	if b.Header.Height == 0 {
		for _, tx := range b.Trans {
			if !tx.IsCoinbase() {
				return fmt.Errorf("genesis block carries non-coinbase tx[%s]", tx)
			}
		}
		return nil
	}

	if len(b.Trans) == 0 {
		return fmt.Errorf("block %d carries no transactions", b.Header.Height)
	}
	if !b.Trans[0].IsCoinbase() {
		return fmt.Errorf("block %d first transaction is not coinbase", b.Header.Height)
	}
	if b.Trans[0].Amount != miningReward {
		return fmt.Errorf("block %d coinbase amount %d does not match reward %d", b.Header.Height, b.Trans[0].Amount, miningReward)
	}
	for _, tx := range b.Trans[1:] {
		if tx.IsCoinbase() {
			return fmt.Errorf("block %d carries extra coinbase tx[%s]", b.Header.Height, tx)
		}
	}

	return nil
}

// PrevHashFor returns the prev-hash value the block at the specified
// height must carry: the zero sentinel at height 0, otherwise the hash
// of the predecessor.
func PrevHashFor(prev *Block) string {
	if prev == nil {
		return signature.ZeroHash
	}

	return prev.Hash()
}
