package state

import (
	"context"
	"errors"

	"github.com/miniledger/miniledger/foundation/ledger/database"
)

// ErrNoTransactions is returned when a block is requested to be created and
// there are no transactions in the mempool. This is a normal empty outcome,
// not a fault.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there transactions in the pool.
	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// Construct a candidate block on top of the current tip. The tip is read
	// here, outside the lock; the acceptance path below re-validates against
	// whatever the tip is once mining has finished.
	trans := s.mempool.Copy()
	latestBlock := s.db.LatestBlock()
	block := database.NewBlock(latestBlock.Index+1, trans, latestBlock.Hash)

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// Attempt to solve the POW puzzle. This can be cancelled.
	hash, err := block.POW(ctx, s.genesis.Difficulty, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}
	block.Hash = hash

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	if err := s.updateLocalState(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local chain.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: blk[%d]: hash[%s]", block.Index, block.Hash)
	defer s.evHandler("state: ProcessProposedBlock: completed")

	// If a mining operation is running it needs to stop immediately. The G
	// executing runMiningOperation will not return from the function until
	// done is called. That allows this function to complete its state changes
	// before a new mining operation takes place.
	done := s.Worker.SignalCancelMining()
	defer func() {
		s.evHandler("state: ProcessProposedBlock: signal runMiningOperation to terminate")
		done()
	}()

	return s.updateLocalState(block)
}

// =============================================================================

// updateLocalState is the single acceptance path for a new block, local or
// peer mined. The block is validated against the current tip under the state
// lock; a mining result whose base moved while the search was running fails
// the linkage check here and is discarded, never appended.
func (s *State) updateLocalState(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := block.ValidateBlock(s.db.LatestBlock(), s.genesis.Difficulty, s.evHandler); err != nil {
		return err
	}

	s.evHandler("state: updateLocalState: write block to the chain")

	if err := s.db.Write(block); err != nil {
		return err
	}

	s.evHandler("state: updateLocalState: remove mined transactions from mempool")

	for _, t := range block.Trans {
		s.mempool.Delete(t)
	}

	return nil
}
