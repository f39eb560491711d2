package state

import (
	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/genesis"
	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// RetrieveHost returns a copy of the host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChainHeight returns the number of blocks in the chain.
func (s *State) RetrieveChainHeight() int {
	return s.db.Height()
}

// RetrieveChain returns a copy of the full chain in block order.
func (s *State) RetrieveChain() []database.Block {
	return s.db.Chain()
}

// RetrieveMempool returns a copy of the unconfirmed transactions in arrival
// order.
func (s *State) RetrieveMempool() []tx.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list without this
// node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}
