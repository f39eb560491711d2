// Package pebblestore implements the ability to read and write blocks to a
// pebble key-value store so the chain survives a node restart.
package pebblestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/miniledger/miniledger/foundation/ledger/database"
)

// blockPrefix namespaces the block records inside the store.
const blockPrefix = "blk:"

// PebbleStore represents the storage implementation for reading and storing
// blocks in a pebble database. This implements the database.Storage interface.
type PebbleStore struct {
	db *pebble.DB
}

// New constructs a PebbleStore value for use, creating the database
// directory when it doesn't exist yet.
func New(path string) (*PebbleStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("unable to create database directory: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	return &PebbleStore{db: db}, nil
}

// Close closes the underlying pebble database.
func (ps *PebbleStore) Close() error {
	return ps.db.Close()
}

// blockKey creates the key for the specified block index. The index is zero
// padded so the natural key order matches the chain order.
func blockKey(index uint64) []byte {
	return []byte(fmt.Sprintf("%s%012d", blockPrefix, index))
}

// Write takes the specified block and stores it by index.
func (ps *PebbleStore) Write(block database.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("unable to marshal block: %w", err)
	}

	return ps.db.Set(blockKey(block.Index), data, pebble.Sync)
}

// GetBlock locates and returns the contents of the specified block by index.
func (ps *PebbleStore) GetBlock(index uint64) (database.Block, error) {
	value, closer, err := ps.db.Get(blockKey(index))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return database.Block{}, database.ErrBlockNotFound
		}
		return database.Block{}, err
	}
	defer closer.Close()

	var block database.Block
	if err := json.Unmarshal(value, &block); err != nil {
		return database.Block{}, fmt.Errorf("unable to unmarshal block: %w", err)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (ps *PebbleStore) ForEach() database.Iterator {
	return &pebbleIterator{storage: ps}
}

// Reset will clear out the stored chain.
func (ps *PebbleStore) Reset() error {
	prefix := []byte(blockPrefix)
	return ps.db.DeleteRange(prefix, prefixUpperBound(prefix), pebble.Sync)
}

// prefixUpperBound returns the exclusive upper bound for iterating or
// deleting every key under the specified prefix.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// =============================================================================

// pebbleIterator represents the iteration implementation for walking through
// the stored blocks. This implements the database.Iterator interface.
type pebbleIterator struct {
	storage *PebbleStore // Access to the storage API.
	current uint64       // Current block index being iterated over.
	eoc     bool         // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from storage.
func (pi *pebbleIterator) Next() (database.Block, error) {
	if pi.eoc {
		return database.Block{}, database.ErrBlockNotFound
	}

	block, err := pi.storage.GetBlock(pi.current)
	if err != nil {
		pi.eoc = true
	}

	pi.current++

	return block, err
}

// Done returns the end of chain value.
func (pi *pebbleIterator) Done() bool {
	return pi.eoc
}
