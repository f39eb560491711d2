// Package database handles all the lower level support for maintaining the
// chain in memory and on storage.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/miniledger/miniledger/foundation/ledger/genesis"
)

// ErrBlockNotFound is returned when the requested block index is not present.
// Storage implementations return this for the index just past the chain tip,
// which is how iteration detects the end of the chain. Any other error from
// storage means the stored chain can't be trusted.
var ErrBlockNotFound = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the chain.
type Storage interface {
	Write(block Block) error
	GetBlock(index uint64) (Block, error)
	ForEach() Iterator
	Reset() error
	Close() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks for the node. The chain is kept whole
// in memory and mirrored to storage so it survives a restart.
type Database struct {
	mu      sync.RWMutex
	genesis genesis.Genesis
	chain   []Block
	storage Storage
}

// New constructs a new database value. Existing blocks are read back from
// storage and the whole chain is re-validated; a chain that doesn't hold up
// fails the node at startup rather than during steady-state operation. A
// fresh storage gets a new genesis block.
func New(genesis genesis.Genesis, storage Storage, ev func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis: genesis,
		storage: storage,
	}

	// Read the chain back from storage. Only a missing block marks the end
	// of the chain, any other failure means the stored chain is unreadable
	// and the node must not come up on a truncated prefix of it.
	iter := storage.ForEach()
	for {
		block, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrBlockNotFound) {
				break
			}
			return nil, fmt.Errorf("unable to read stored chain: %w", err)
		}
		db.chain = append(db.chain, block)
	}

	// A fresh storage means a fresh chain, starting from genesis.
	if len(db.chain) == 0 {
		gen := NewGenesisBlock()
		if err := storage.Write(gen); err != nil {
			return nil, err
		}
		db.chain = []Block{gen}
		ev("database: New: created genesis block: hash[%s]", gen.Hash)

		return &db, nil
	}

	ev("database: New: loaded blocks[%d] from storage", len(db.chain))

	if err := ValidateChain(db.chain, genesis.Difficulty, ev); err != nil {
		return nil, fmt.Errorf("stored chain is invalid: %w", err)
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.storage.Close()
}

// LatestBlock returns a copy of the current chain tip.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// Height returns the current length of the chain.
func (db *Database) Height() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Chain returns a copy of the current chain.
func (db *Database) Chain() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	chain := make([]Block, len(db.chain))
	copy(chain, db.chain)
	return chain
}

// GetBlock returns a copy of the block at the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index >= uint64(len(db.chain)) {
		return Block{}, ErrBlockNotFound
	}

	return db.chain[index], nil
}

// Write appends the block to the chain and mirrors it to storage. The block
// is expected to be validated by the caller.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(block); err != nil {
		return err
	}
	db.chain = append(db.chain, block)

	return nil
}

// Replace swaps the entire chain for the specified one and rewrites storage
// to match. The caller is expected to have validated the candidate first.
func (db *Database) Replace(chain []Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}
	for _, block := range chain {
		if err := db.storage.Write(block); err != nil {
			return err
		}
	}

	db.chain = make([]Block, len(chain))
	copy(db.chain, chain)

	return nil
}
