package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// baseURL is the url pattern for the private node endpoints of a peer.
const baseURL = "http://%s/v1/node"

// peerTimeout bounds every call to a peer so one unresponsive peer cannot
// stall a sync or a consensus resolution.
const peerTimeout = 5 * time.Second

// =============================================================================

// RegisterRequest is what a node sends to a peer to announce itself.
type RegisterRequest struct {
	Host string `json:"host" validate:"required"`
}

// RegisterResponse is what a peer answers a registration with. The chain is
// included so the newly registered node can sync immediately.
type RegisterResponse struct {
	KnownPeers []peer.Peer      `json:"known_peers"`
	Length     int              `json:"length"`
	Chain      []database.Block `json:"chain"`
}

// =============================================================================

// NetRequestPeerStatus asks a peer for its current status.
func (s *State) NetRequestPeerStatus(pr peer.Peer) (peer.PeerStatus, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, pr.Host))

	var ps peer.PeerStatus
	if err := send(http.MethodGet, url, nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer-node[%s]: chain-length[%d]: peer-list[%s]", pr.Host, ps.ChainLength, ps.KnownPeers)

	return ps, nil
}

// NetRequestPeerChain asks a peer for a full dump of its chain.
func (s *State) NetRequestPeerChain(pr peer.Peer) (database.ChainDump, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/chain/list", fmt.Sprintf(baseURL, pr.Host))

	var dump database.ChainDump
	if err := send(http.MethodGet, url, nil, &dump); err != nil {
		return database.ChainDump{}, err
	}

	s.evHandler("state: NetRequestPeerChain: len[%d]", dump.Length)

	return dump, nil
}

// NetRegisterSelf announces this node to the specified peer so it starts
// receiving blocks and transactions. The peer answers with its chain and its
// peer list for bootstrapping.
func (s *State) NetRegisterSelf(pr peer.Peer) (RegisterResponse, error) {
	s.evHandler("state: NetRegisterSelf: started: %s", pr.Host)
	defer s.evHandler("state: NetRegisterSelf: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/peer/register", fmt.Sprintf(baseURL, pr.Host))

	var resp RegisterResponse
	if err := send(http.MethodPost, url, RegisterRequest{Host: s.host}, &resp); err != nil {
		return RegisterResponse{}, err
	}

	return resp, nil
}

// NetSendBlockToPeers takes the new mined block and sends it to all known
// peers.
func (s *State) NetSendBlockToPeers(block database.Block) error {
	s.evHandler("state: NetSendBlockToPeers: started")
	defer s.evHandler("state: NetSendBlockToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/block/propose", fmt.Sprintf(baseURL, pr.Host))

		var status struct {
			Status string `json:"status"`
		}

		if err := send(http.MethodPost, url, block, &status); err != nil {
			return fmt.Errorf("%s: %s", pr.Host, err)
		}

		s.evHandler("state: NetSendBlockToPeers: sent to peer[%s]", pr.Host)
	}

	return nil
}

// NetSendTxToPeers shares a new transaction with the known peers.
func (s *State) NetSendTxToPeers(t tx.Tx) {
	s.evHandler("state: NetSendTxToPeers: started")
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/tx/submit", fmt.Sprintf(baseURL, pr.Host))
		if err := send(http.MethodPost, url, t, nil); err != nil {
			s.evHandler("state: NetSendTxToPeers: WARNING: %s", err)
		}
	}
}

// =============================================================================

// client bounds all node to node calls with the peer timeout.
var client = http.Client{
	Timeout: peerTimeout,
}

// send is a helper function to send an HTTP request to a node.
func send(method string, url string, dataSend any, dataRecv any) error {
	var req *http.Request

	switch {
	case dataSend != nil:
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(data))
		if err != nil {
			return err
		}

	default:
		var err error
		req, err = http.NewRequest(method, url, nil)
		if err != nil {
			return err
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
