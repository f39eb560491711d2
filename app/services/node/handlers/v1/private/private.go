// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/miniledger/miniledger/business/web/v1"
	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/miniledger/miniledger/foundation/ledger/state"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
	"github.com/miniledger/miniledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	status := peer.PeerStatus{
		LatestBlockHash:  latestBlock.Hash,
		LatestBlockIndex: latestBlock.Index,
		ChainLength:      h.State.RetrieveChainHeight(),
		KnownPeers:       h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Chain returns the full chain with its length for consensus resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dump := database.NewChainDump(h.State.RetrieveChain())
	return web.Respond(ctx, w, dump, http.StatusOK)
}

// ProposeBlock takes a block received from a peer, validates it and if that
// passes, adds the block to the local chain.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	// Ask the state package to validate the proposed block. If the block
	// passes validation, it will be added to the chain database.
	if err := h.State.ProcessProposedBlock(block); err != nil {
		return v1.NewRequestError(errors.New("block not accepted"), http.StatusNotAcceptable)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var t tx.Tx
	if err := web.Decode(r, &t); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("add node tran", "traceid", v.TraceID, "author", t.Author)
	if err := h.State.UpsertNodeTransaction(t); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterPeer adds the calling node to the known peer list and answers with
// the chain and peers so the caller can sync.
func (h Handlers) RegisterPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var reg state.RegisterRequest
	if err := web.Decode(r, &reg); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if h.State.AddKnownPeer(peer.New(reg.Host)) {
		h.Log.Infow("register peer", "traceid", v.TraceID, "host", reg.Host)
	}

	chain := h.State.RetrieveChain()

	resp := state.RegisterResponse{
		KnownPeers: h.State.RetrieveKnownPeers(),
		Length:     len(chain),
		Chain:      chain,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ResolveConsensus runs the longest chain consensus algorithm against the
// known peers and reports whether the local chain was replaced.
func (h Handlers) ResolveConsensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res := h.State.Resolve()

	resp := struct {
		Resolution state.Resolution `json:"resolution"`
		Length     int              `json:"length"`
	}{
		Resolution: res,
		Length:     h.State.RetrieveChainHeight(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
