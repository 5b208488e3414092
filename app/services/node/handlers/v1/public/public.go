// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/enset/powledger/business/web/errs"
	"github.com/enset/powledger/business/web/mid"
	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/blockchain/mempool"
	"github.com/enset/powledger/foundation/blockchain/state"
	"github.com/enset/powledger/foundation/blockchain/worker"
	"github.com/enset/powledger/foundation/events"
	"github.com/enset/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log           *zap.SugaredLogger
	State         *state.State
	WS            websocket.Upgrader
	Evts          *events.Events
	MiningTimeout time.Duration
	CORSOrigins   []string
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Browsers don't apply CORS to websockets so the origin is checked here.
	h.WS.CheckOrigin = func(r *http.Request) bool {
		return mid.OriginAllowed(h.CORSOrigins, r.Header.Get("Origin"))
	}

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain. A
	// client can ask for specific stages, ?stage=MINING for example.
	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["stage"]...)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case ev, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteJSON(ev); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var st SubmitTx
	if err := web.Decode(r, &st); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	tx, err := database.NewTx(st.From, st.To, st.Amount, st.Data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "id", tx.ID, "from", tx.From, "to", tx.To, "amount", tx.Amount)

	if err := h.State.SubmitTransaction(tx); err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidTransaction),
			errors.Is(err, database.ErrTxCommitted),
			errors.Is(err, mempool.ErrDuplicateTransaction):
			return errs.NewTrusted(err, http.StatusBadRequest)
		default:
			return err
		}
	}

	resp := struct {
		Status string `json:"status"`
		Tx     Tx     `json:"tx"`
	}{
		Status: "transaction added to mempool",
		Tx:     toTx(tx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.State.RetrieveMempool()), http.StatusOK)
}

// MineBlock mines the pending transactions into a new block on the mining
// worker and returns the sealed block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(ctx, h.MiningTimeout)
	defer cancel()

	block, err := h.State.Worker.MineBlock(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			return errs.NewTrusted(err, http.StatusBadRequest)
		case errors.Is(err, database.ErrMiningAborted),
			errors.Is(err, state.ErrMiningNotAllowed),
			errors.Is(err, worker.ErrShutdown):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		default:
			return err
		}
	}

	return web.Respond(ctx, w, toBlock(block), http.StatusOK)
}

// CancelMining signals the worker to stop the current mining operation.
func (h Handlers) CancelMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalCancelMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining cancel signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current state of the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	status := Status{
		Difficulty:  h.State.RetrieveDifficulty(),
		Length:      int(latestBlock.Header.Number) + 1,
		LatestBlock: latestBlock.Hash(),
		Uncommitted: h.State.QueryMempoolLength(),
		Dropped:     h.Evts.Dropped(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Blocks returns the summary of every block in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.RetrieveBlocks()

	blocks := make([]BlockSummary, len(dbBlocks))
	for i, block := range dbBlocks {
		blocks[i] = toBlockSummary(block)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByAccount returns the blocks with transactions for the account.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.QueryBlocksByAccount(web.Param(r, "account"))
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]Block, len(dbBlocks))
	for i, block := range dbBlocks {
		blocks[i] = toBlock(block)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByIndex returns the block at the specified position in the chain.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.Atoi(web.Param(r, "index"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid index: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.RetrieveBlock(index)
	if err != nil {
		if errors.Is(err, database.ErrOutOfRange) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(block), http.StatusOK)
}

// Validate re-verifies the chain and reports the first bad block.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v := h.State.ValidateChain()

	h.Log.Infow("validate chain", "traceid", web.GetTraceID(ctx), "verdict", v.String())

	return web.Respond(ctx, w, toVerdict(v), http.StatusOK)
}
