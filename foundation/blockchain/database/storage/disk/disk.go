// Package disk implements the database.Serializer interface by storing
// each block in its own JSON file under an explicitly provided
// directory.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/solochain/solochain/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and
// storing blocks in their own separate files on disk.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use, creating the directory if it
// does not exist.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written for each block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write stores the specified block record on disk in a file labeled
// with the block height.
func (d *Disk) Write(blockData database.BlockData) error {
	data, err := json.MarshalIndent(blockData, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(blockData.Header.Height), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// GetBlock reads and returns the record for the block at the specified
// height.
func (d *Disk) GetBlock(height uint64) (database.BlockData, error) {
	f, err := os.OpenFile(d.getPath(height), os.O_RDONLY, 0600)
	if err != nil {
		return database.BlockData{}, err
	}
	defer f.Close()

	var blockData database.BlockData
	if err := json.NewDecoder(f).Decode(&blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (d *Disk) ForEach() database.Iterator {
	return &iterator{disk: d}
}

// Reset clears out the stored blockchain.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the file for the specified block.
func (d *Disk) getPath(height uint64) string {
	name := strconv.FormatUint(height, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// iterator walks the block files on disk in height order. This
// implements the database.Iterator interface.
type iterator struct {
	disk    *Disk
	next    uint64
	eoc     bool
	started bool
}

// Next retrieves the next block from disk.
func (it *iterator) Next() (database.BlockData, error) {
	if it.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	if it.started {
		it.next++
	}
	it.started = true

	blockData, err := it.disk.GetBlock(it.next)
	if errors.Is(err, fs.ErrNotExist) {
		it.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (it *iterator) Done() bool {
	return it.eoc
}
