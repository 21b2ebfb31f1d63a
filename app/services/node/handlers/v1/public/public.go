// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	v1 "github.com/solochain/solochain/business/web/v1"
	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/state"
	"github.com/solochain/solochain/foundation/events"
	"github.com/solochain/solochain/foundation/web"
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

// SubmitWalletTransaction adds a new user transaction to the mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var stx submitTx
	if err := web.Decode(r, &stx); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tx := toDatabaseTx(stx)

	h.Log.Infow("add user tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount, "nonce", tx.Nonce)
	if err := h.State.SubmitWalletTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		TxID   string `json:"txid"`
	}{
		Status: "transaction added to mempool",
		TxID:   tx.TxID(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// Accounts returns the current balance and nonce for all accounts or
// for the one specified in the route.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	accounts := h.State.RetrieveAccounts()

	acts := make([]info, 0, len(accounts))
	for addr, act := range accounts {
		if account != "" && account != string(addr) {
			continue
		}
		acts = append(acts, info{
			Account: string(addr),
			Balance: act.Balance,
			Nonce:   act.Nonce,
		})
	}

	var latest string
	if block, exists := h.State.RetrieveLatestBlock(); exists {
		latest = block.Hash()
	}

	ai := actInfo{
		LatestBlock: latest,
		Uncommitted: len(h.State.RetrieveMempool()),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Nonce returns the next usable nonce for the specified account,
// accounting for transactions still waiting in the mempool.
func (h Handlers) Nonce(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.Address(web.Param(r, "account"))
	if !account.IsValid() {
		return v1.NewRequestError(fmt.Errorf("invalid account %q", account), http.StatusBadRequest)
	}

	ni := nonceInfo{
		Account: string(account),
		Nonce:   h.State.NextNonceWithMempool(account),
	}

	return web.Respond(ctx, w, ni, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified range.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	toStr := web.Param(r, "to")

	chainLength := h.State.RetrieveChainLength()
	if chainLength == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid from height %q", fromStr), http.StatusBadRequest)
	}

	to := chainLength - 1
	if toStr != "latest" {
		if to, err = strconv.ParseUint(toStr, 10, 64); err != nil {
			return v1.NewRequestError(fmt.Errorf("invalid to height %q", toStr), http.StatusBadRequest)
		}
	}

	if from > to {
		return v1.NewRequestError(fmt.Errorf("from %d greater than to %d", from, to), http.StatusBadRequest)
	}
	if to >= chainLength {
		to = chainLength - 1
	}

	blocks := make([]database.BlockData, 0, to-from+1)
	for height := from; height <= to; height++ {
		blockData, err := h.State.RetrieveBlockData(height)
		if err != nil {
			return err
		}
		blocks = append(blocks, blockData)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// TransactionProof returns a merkle inclusion proof for the specified
// transaction in the specified block.
func (h Handlers) TransactionProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txID := web.Param(r, "txid")

	height, err := strconv.ParseUint(web.Param(r, "height"), 10, 64)
	if err != nil {
		return v1.NewRequestError(fmt.Errorf("invalid block height %q", web.Param(r, "height")), http.StatusBadRequest)
	}

	proof, root, err := h.State.TransactionProof(height, txID)
	if err != nil {
		return v1.NewRequestError(err, http.StatusNotFound)
	}

	pi := proofInfo{
		TxID:       txID,
		Height:     height,
		MerkleRoot: root,
		Proof:      proof,
	}

	return web.Respond(ctx, w, pi, http.StatusOK)
}

// Mine performs the proof of work over the pending transactions and
// adds the mined block to the chain. Mining is canceled if the caller
// disconnects.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.State.MineNextBlock(ctx)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "height", block.Header.Height, "hash", block.Hash(), "trans", len(block.Trans))

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// ValidateChain replays the full chain from genesis and reports whether
// every block still checks out.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Validate(); err != nil {
		return v1.NewRequestError(err, http.StatusConflict)
	}

	resp := struct {
		Valid  bool   `json:"valid"`
		Blocks uint64 `json:"blocks"`
	}{
		Valid:  true,
		Blocks: h.State.RetrieveChainLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
