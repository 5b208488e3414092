package public

import (
	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/validate"
)

// SubmitTx is what a client sends to have a transaction added to the mempool.
type SubmitTx struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount int64  `json:"amount" validate:"gte=0"`
	Data   string `json:"data"`
}

// Validate checks the data in the model is considered clean.
func (st SubmitTx) Validate() error {
	return validate.Check(st)
}

// Tx is a transaction as seen by clients.
type Tx struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Data   string `json:"data"`
}

// BlockSummary is the block header information without the transactions.
type BlockSummary struct {
	Index            uint64 `json:"index"`
	TimeStamp        int64  `json:"timestamp"`
	PrevBlockHash    string `json:"prev_block_hash"`
	Hash             string `json:"hash"`
	Nonce            uint64 `json:"nonce"`
	TransactionCount int    `json:"transaction_count"`
}

// Block is a block with its transactions.
type Block struct {
	BlockSummary
	Trans []Tx `json:"trans"`
}

// Verdict is the outcome of validating the chain.
type Verdict struct {
	Valid         bool    `json:"valid"`
	FirstBadIndex *uint64 `json:"first_bad_index,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	Detail        string  `json:"detail,omitempty"`
}

// Status is the current state of the node.
type Status struct {
	Difficulty  int    `json:"difficulty"`
	Length      int    `json:"length"`
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Dropped     uint64 `json:"dropped_events"`
}

// =============================================================================

func toTx(tx database.Tx) Tx {
	return Tx{
		ID:     tx.ID,
		From:   tx.From,
		To:     tx.To,
		Amount: tx.Amount,
		Data:   tx.Data,
	}
}

func toTxs(trans []database.Tx) []Tx {
	txs := make([]Tx, len(trans))
	for i, tx := range trans {
		txs[i] = toTx(tx)
	}
	return txs
}

func toBlockSummary(block database.Block) BlockSummary {
	return BlockSummary{
		Index:            block.Header.Number,
		TimeStamp:        block.Header.TimeStamp,
		PrevBlockHash:    block.Header.PrevBlockHash,
		Hash:             block.Hash(),
		Nonce:            block.Header.Nonce,
		TransactionCount: len(block.Trans),
	}
}

func toBlock(block database.Block) Block {
	return Block{
		BlockSummary: toBlockSummary(block),
		Trans:        toTxs(block.Trans),
	}
}

func toVerdict(v database.Verdict) Verdict {
	if v.Valid {
		return Verdict{Valid: true}
	}

	index := v.Index
	return Verdict{
		FirstBadIndex: &index,
		Reason:        string(v.Finding),
		Detail:        v.Detail,
	}
}
