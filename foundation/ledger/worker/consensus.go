package worker

import (
	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/miniledger/miniledger/foundation/ledger/state"
)

// Sync registers this node with the network and adopts the longest valid
// chain the peers are carrying before any support G is started.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	var dumps []database.ChainDump

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: requestPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// Let the peer know this node is available, the answer carries the
		// peer's chain for the initial sync.
		resp, err := w.state.NetRegisterSelf(pr)
		if err != nil {
			w.evHandler("worker: sync: registerSelf: %s: ERROR: %s", pr.Host, err)
			continue
		}

		dumps = append(dumps, database.ChainDump{Length: resp.Length, Chain: resp.Chain})
	}

	if len(dumps) > 0 {
		if res := w.state.ResolveChains(dumps); res == state.ResolutionReplaced {
			w.evHandler("worker: sync: local chain replaced: height[%d]", w.state.RetrieveChainHeight())
		}
	}
}

// =============================================================================

// peerOperations handles finding new peers and keeping the chain resolved
// against the network.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation updates the peer list and resolves the chain when a peer
// reports a longer one.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	var resolve bool

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer. Drop peers that stopped
		// answering.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: runPeersOperation: requestPeerStatus: %s: ERROR: %s", pr.Host, err)
			w.state.RemoveKnownPeer(pr)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		if peerStatus.ChainLength > w.state.RetrieveChainHeight() {
			w.evHandler("worker: runPeersOperation: %s: longer chain: len[%d]", pr.Host, peerStatus.ChainLength)
			resolve = true
		}
	}

	if resolve {
		res := w.state.Resolve()
		w.evHandler("worker: runPeersOperation: resolve: %s", res)
	}
}

// addNewPeers takes the list of known peers and makes sure they are included
// in this nodes list of known peers.
func (w *Worker) addNewPeers(knownPeers []peer.Peer) {
	w.evHandler("worker: addNewPeers: started")
	defer w.evHandler("worker: addNewPeers: completed")

	for _, pr := range knownPeers {

		// Don't add this running node to the known peer list.
		if pr.Match(w.state.RetrieveHost()) {
			continue
		}

		if w.state.AddKnownPeer(pr) {
			w.evHandler("worker: addNewPeers: adding peer-node %s", pr)
		}
	}
}
