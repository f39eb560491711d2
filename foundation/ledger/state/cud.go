package state

import (
	"github.com/miniledger/miniledger/foundation/ledger/peer"
)

// AddKnownPeer adds a peer to the known peer list. It returns true when the
// peer was not already known.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	return s.knownPeers.Add(pr)
}

// RemoveKnownPeer removes a peer from the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}
