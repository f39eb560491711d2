// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/genesis"
	"github.com/miniledger/miniledger/foundation/ledger/mempool"
	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, consensus syncing, and transaction
// sharing.
type Worker interface {
	Shutdown()
	Sync()
	SignalStartMining()
	SignalCancelMining() (done func())
	SignalShareTx(t tx.Tx)
}

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	Host       string
	Genesis    genesis.Genesis
	Storage    database.Storage
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the ledger for the node. All state-mutating operations are
// serialized through the single mutex so an in-flight mining result can never
// interleave with a peer block or a chain replacement.
type State struct {
	mu sync.Mutex

	host      string
	evHandler EventHandler
	genesis   genesis.Genesis

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new ledger state for node management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Access the storage for the chain. A missing genesis block or a stored
	// chain that doesn't validate fails the node right here.
	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		host:       cfg.Host,
		evHandler:  ev,
		genesis:    cfg.Genesis,
		knownPeers: cfg.KnownPeers,
		mempool:    mempool.New(),
		db:         db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop all chain writing activity.
	s.Worker.Shutdown()

	return nil
}
