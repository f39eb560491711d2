// Package mempool maintains the pool of transactions submitted but not yet
// mined into a block. Transactions keep their arrival order, there is no
// prioritization and no deduplication.
package mempool

import (
	"sync"

	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// Mempool represents the pending transaction pool.
type Mempool struct {
	mu   sync.RWMutex
	pool []tx.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool in arrival order.
func (mp *Mempool) Add(t tx.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, t)
}

// Delete removes the first transaction from the pool that matches the
// specified transaction. Used when a block carrying the transaction has been
// accepted into the chain.
func (mp *Mempool) Delete(t tx.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, pt := range mp.pool {
		if pt == t {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return
		}
	}
}

// Copy returns a copy of the pool in arrival order.
func (mp *Mempool) Copy() []tx.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	pool := make([]tx.Tx, len(mp.pool))
	copy(pool, mp.pool)
	return pool
}
