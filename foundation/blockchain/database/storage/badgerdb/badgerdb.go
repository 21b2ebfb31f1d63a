// Package badgerdb implements the database.Serializer interface on top
// of BadgerDB, storing one JSON encoded block record per key. Keys are
// the big-endian block height so a prefix-free iteration in key order
// is also height order.
package badgerdb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/solochain/solochain/foundation/blockchain/database"
)

// Store represents the BadgerDB-backed block store.
type Store struct {
	db *badger.DB
}

// New opens (or creates) a BadgerDB instance in the explicitly
// provided directory.
func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("data directory is required")
	}

	opts := badger.DefaultOptions(dataDir)
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases all BadgerDB resources.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// Write stores the block record under its height key.
func (s *Store) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(heightKey(blockData.Header.Height), data)
	})
}

// GetBlock returns the record for the block at the specified height.
func (s *Store) GetBlock(height uint64) (database.BlockData, error) {
	var blockData database.BlockData

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(heightKey(height))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &blockData)
		})
	})
	if err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (s *Store) ForEach() database.Iterator {
	return &iterator{store: s}
}

// Reset drops every stored block.
func (s *Store) Reset() error {
	return s.db.DropAll()
}

// heightKey encodes a block height as a fixed-width big-endian key.
func heightKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)

	return key
}

// =============================================================================

// iterator walks the stored records in height order. This implements
// the database.Iterator interface.
type iterator struct {
	store   *Store
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

	blockData, err := it.store.GetBlock(it.next)
	if errors.Is(err, badger.ErrKeyNotFound) {
		it.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (it *iterator) Done() bool {
	return it.eoc
}
