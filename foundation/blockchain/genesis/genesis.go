// Package genesis maintains access to the chain parameters and the
// initial coin allocations.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the chain configuration: constant for the life of
// a chain instance, plus the allocations the genesis block mints.
type Genesis struct {
	Date          time.Time         `json:"date"`
	Difficulty    uint              `json:"difficulty"`      // Leading zero hex digits required of a block hash.
	MiningReward  uint64            `json:"mining_reward"`   // Coinbase amount for every mined block after genesis.
	TransPerBlock int               `json:"trans_per_block"` // Maximum mempool transactions drawn into a block.
	Allocations   map[string]uint64 `json:"allocations"`     // Address to amount minted by the genesis block.
}

// Load opens and consumes the genesis file at the specified path.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Save writes the genesis configuration to the specified path.
func Save(path string, genesis Genesis) error {
	data, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
