// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	v1 "github.com/miniledger/miniledger/business/web/v1"
	"github.com/miniledger/miniledger/foundation/events"
	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/state"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
	"github.com/miniledger/miniledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new user transaction to the mempool. Mining is
// not triggered here, blocks are produced on an explicit mining signal.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var newTx struct {
		Author  string `json:"author" validate:"required"`
		Content string `json:"content" validate:"required"`
	}
	if err := web.Decode(r, &newTx); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	t := tx.New(newTx.Author, newTx.Content)

	h.Log.Infow("add tran", "traceid", v.TraceID, "author", t.Author)
	if err := h.State.SubmitTransaction(t); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns the full chain with its length.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dump := database.NewChainDump(h.State.RetrieveChain())
	return web.Respond(ctx, w, dump, http.StatusOK)
}

// Mempool returns the set of unconfirmed transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// SignalMining signals a mining operation for the pending transactions.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if len(h.State.RetrieveMempool()) == 0 {
		resp := struct {
			Status string `json:"status"`
		}{
			Status: "no transactions to mine",
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
