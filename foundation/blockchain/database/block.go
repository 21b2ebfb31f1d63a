package database

import (
	"context"
	"strings"
	"time"

	"github.com/solochain/solochain/foundation/blockchain/merkle"
	"github.com/solochain/solochain/foundation/blockchain/signature"
)

// zeroPrefix is long enough for any difficulty a sha256 digest can
// express in hex digits.
const zeroPrefix = "0000000000000000000000000000000000000000000000000000000000000000"

// BlockHeader represents common information required for each block.
// The struct field order is the canonical form the block hash is
// computed over; the transactions are bound in through MerkleRoot.
type BlockHeader struct {
	Height     uint64 `json:"height"`      // Position of the block in the chain.
	PrevHash   string `json:"prev_hash"`   // Hash of the previous block's header, or the zero sentinel.
	TimeStamp  uint64 `json:"timestamp"`   // The time the block was mined.
	Nonce      uint64 `json:"nonce"`       // Value discovered to solve the work problem.
	Difficulty uint   `json:"difficulty"`  // Number of leading zero hex digits required of the hash.
	MerkleRoot string `json:"merkle_root"` // Merkle root over the ordered transaction ids.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []Tx
}

// POW constructs the next Block and performs the work to find a nonce
// that solves the cryptographic puzzle. The nonce search starts at
// zero and increments until the hash carries the required number of
// leading zero hex digits; the context is the cancellation hook for
// callers that need to abandon the search.
func POW(ctx context.Context, height uint64, prevHash string, difficulty uint, trans []Tx, evHandler func(v string, args ...any)) (Block, error) {
	evHandler("database: POW: MINING: started: height[%d] txs[%d]", height, len(trans))
	defer evHandler("database: POW: MINING: completed")

	nb := Block{
		Header: BlockHeader{
			Height:     height,
			PrevHash:   prevHash,
			TimeStamp:  uint64(time.Now().UTC().Unix()),
			Nonce:      0,
			Difficulty: difficulty,
			MerkleRoot: merkle.Root(TxIDs(trans)),
		},
		Trans: trans,
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			evHandler("database: POW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			evHandler("database: POW: MINING: CANCELLED")
			return Block{}, ctx.Err()
		}

		hash := nb.Hash()
		if !IsHashSolved(difficulty, hash) {
			nb.Header.Nonce++
			continue
		}

		evHandler("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", prevHash, hash, attempts)
		return nb, nil
	}
}

// Hash returns the unique hash for the Block: the digest of the
// canonical form of the header fields only.
func (b Block) Hash() string {
	return signature.Hash(b.Header)
}

// TxIDs returns the ordered transaction ids for a set of transactions.
// These are the leaves of the block's merkle commitment.
func TxIDs(trans []Tx) []string {
	ids := make([]string, len(trans))
	for i, tx := range trans {
		ids[i] = tx.TxID()
	}

	return ids
}

// IsHashSolved checks the hash complies with the proof-of-work rules:
// a difficulty number of leading zero hex digits.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != signature.HashLength || difficulty > signature.HashLength {
		return false
	}

	return strings.HasPrefix(hash, zeroPrefix[:difficulty])
}
