package database

// Serializer interface represents the behavior required to be
// implemented by any package providing support for storing and reading
// the blockchain. Implementations take their resource location as an
// explicit constructor argument.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(height uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be
// implemented by any package providing support to iterate over the
// stored blocks in height order, starting at the genesis block.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockData represents what is serialized for persistence: the header
// fields, the ordered transactions, and the header hash for
// convenience. The hash is never trusted on load; every block is
// re-validated by full replay.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans,
	}
}

// ToBlock converts a BlockData back into a Block.
func ToBlock(blockData BlockData) Block {
	return Block{
		Header: blockData.Header,
		Trans:  blockData.Trans,
	}
}
