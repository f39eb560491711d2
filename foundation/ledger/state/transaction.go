package state

import (
	"fmt"

	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// SubmitTransaction validates a transaction submitted by a client, adds it
// to the mempool and shares it with the known peers. Mining is not started
// here, a block is only produced on an explicit mining request.
func (s *State) SubmitTransaction(t tx.Tx) error {
	s.evHandler("state: SubmitTransaction: started")
	defer s.evHandler("state: SubmitTransaction: completed")

	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	s.mempool.Add(t)
	s.evHandler("state: SubmitTransaction: mempool[%d]", s.mempool.Count())

	s.Worker.SignalShareTx(t)

	return nil
}

// UpsertNodeTransaction accepts a transaction shared by another node and
// adds it to the mempool. The transaction is not shared again, the
// originating node already delivered it to every peer it knows.
func (s *State) UpsertNodeTransaction(t tx.Tx) error {
	s.evHandler("state: UpsertNodeTransaction: started")
	defer s.evHandler("state: UpsertNodeTransaction: completed")

	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	s.mempool.Add(t)
	s.evHandler("state: UpsertNodeTransaction: mempool[%d]", s.mempool.Count())

	return nil
}
