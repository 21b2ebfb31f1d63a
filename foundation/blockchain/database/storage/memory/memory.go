// Package memory implements the database.Serializer interface by
// keeping block records in memory. It exists for tests and demos that
// need a chain without touching disk, and to let tests corrupt stored
// records for tamper detection checks.
package memory

import (
	"errors"
	"sync"

	"github.com/solochain/solochain/foundation/blockchain/database"
)

// Memory represents the in-memory block store.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs an empty in-memory block store.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close has nothing to release.
func (m *Memory) Close() error {
	return nil
}

// Write appends the block record to the store.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = append(m.blocks, blockData)
	return nil
}

// GetBlock returns the record for the block at the specified height.
func (m *Memory) GetBlock(height uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if height >= uint64(len(m.blocks)) {
		return database.BlockData{}, errors.New("block does not exist")
	}

	return m.blocks[height], nil
}

// Corrupt replaces the stored record at the specified height. Tests
// use this to simulate on-disk tampering.
func (m *Memory) Corrupt(height uint64, blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if height >= uint64(len(m.blocks)) {
		return errors.New("block does not exist")
	}

	m.blocks[height] = blockData
	return nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &iterator{memory: m}
}

// Reset clears the stored blockchain.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// iterator walks the stored records in height order. This implements
// the database.Iterator interface.
type iterator struct {
	memory  *Memory
	next    uint64
	eoc     bool
	started bool
}

// Next retrieves the next block from the store.
func (it *iterator) Next() (database.BlockData, error) {
	if it.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	if it.started {
		it.next++
	}
	it.started = true

	blockData, err := it.memory.GetBlock(it.next)
	if err != nil {
		it.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (it *iterator) Done() bool {
	return it.eoc
}
