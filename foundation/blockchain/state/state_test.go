package state_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/blockchain/mempool"
	"github.com/enset/powledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newState(t *testing.T, difficulty int, transPerBlock int) *state.State {
	st, err := state.New(state.Config{
		Difficulty:    difficulty,
		TransPerBlock: transPerBlock,
		EvHandler:     func(v string, args ...any) { t.Logf(v, args...) },
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	return st
}

func submit(t *testing.T, st *state.State, from string, to string, amount int64) database.Tx {
	tx, err := database.NewTx(from, to, amount, "")
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
	}

	if err := st.SubmitTransaction(tx); err != nil {
		t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
	}
	return tx
}

// =============================================================================

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to mine submitted transactions.")
	{
		st := newState(t, 2, 10)

		if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
			t.Fatalf("\t%s\tShould get ErrNoTransactions with an empty mempool: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrNoTransactions with an empty mempool.", success)

		tx := submit(t, st, "A", "B", 10)
		t.Logf("\t%s\tShould be able to submit a transaction.", success)

		if err := st.SubmitTransaction(tx); !errors.Is(err, mempool.ErrDuplicateTransaction) {
			t.Fatalf("\t%s\tShould reject the same transaction twice: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the same transaction twice.", success)

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if !strings.HasPrefix(block.Hash(), "00") || len(st.RetrieveBlocks()) != 2 {
			t.Fatalf("\t%s\tShould have a second block with a hash starting with 00.", failed)
		}
		t.Logf("\t%s\tShould have a second block with a hash starting with 00.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould remove mined transactions from the mempool.", failed)
		}
		t.Logf("\t%s\tShould remove mined transactions from the mempool.", success)

		if v := st.ValidateChain(); !v.Valid {
			t.Fatalf("\t%s\tShould have a valid chain: %s", failed, v)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_TransPerBlock(t *testing.T) {
	t.Log("Given the need to limit the transactions in a block.")
	{
		st := newState(t, 1, 2)

		trans := []database.Tx{
			submit(t, st, "A", "B", 1),
			submit(t, st, "B", "C", 2),
			submit(t, st, "C", "D", 3),
		}

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		if len(block.Trans) != 2 || block.Trans[0] != trans[0] || block.Trans[1] != trans[1] {
			t.Fatalf("\t%s\tShould mine the two oldest transactions in order.", failed)
		}
		t.Logf("\t%s\tShould mine the two oldest transactions in order.", success)

		if pending := st.RetrieveMempool(); len(pending) != 1 || pending[0] != trans[2] {
			t.Fatalf("\t%s\tShould leave the newest transaction in the mempool.", failed)
		}
		t.Logf("\t%s\tShould leave the newest transaction in the mempool.", success)

		blocks := st.QueryBlocksByAccount("D")
		if len(blocks) != 0 {
			t.Fatalf("\t%s\tShould not find blocks for an account not mined yet.", failed)
		}

		if _, err := st.MineNewBlock(context.Background()); err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		blocks = st.QueryBlocksByAccount("C")
		if len(blocks) != 2 {
			t.Fatalf("\t%s\tShould find both blocks for account C, got %d.", failed, len(blocks))
		}
		t.Logf("\t%s\tShould find the blocks for an account.", success)

		if len(st.QueryBlocksByAccount("")) != 3 {
			t.Fatalf("\t%s\tShould return every block for an empty account.", failed)
		}
		t.Logf("\t%s\tShould return every block for an empty account.", success)
	}
}

func Test_MineNewBlockAborted(t *testing.T) {
	t.Log("Given the need to cancel mining without losing transactions.")
	{
		st := newState(t, 8, 10)
		tx := submit(t, st, "A", "B", 10)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		if _, err := st.MineNewBlock(ctx); !errors.Is(err, database.ErrMiningAborted) {
			t.Fatalf("\t%s\tShould get ErrMiningAborted: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrMiningAborted.", success)

		if len(st.RetrieveBlocks()) != 1 {
			t.Fatalf("\t%s\tShould leave the chain unchanged.", failed)
		}
		t.Logf("\t%s\tShould leave the chain unchanged.", success)

		if pending := st.RetrieveMempool(); len(pending) != 1 || pending[0] != tx {
			t.Fatalf("\t%s\tShould keep the transaction in the mempool.", failed)
		}
		t.Logf("\t%s\tShould keep the transaction in the mempool.", success)
	}
}

func Test_SubmitInvalid(t *testing.T) {
	t.Log("Given the need to reject invalid transactions.")
	{
		st := newState(t, 1, 10)

		err := st.SubmitTransaction(database.Tx{ID: "1", From: "A", To: "B", Amount: -5})
		if !errors.Is(err, database.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould get ErrInvalidTransaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrInvalidTransaction.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould not add the transaction to the mempool.", failed)
		}
		t.Logf("\t%s\tShould not add the transaction to the mempool.", success)
	}
}

func Test_SubmitSettled(t *testing.T) {
	t.Log("Given the need to reject transactions that already settled.")
	{
		st := newState(t, 1, 10)
		tx := submit(t, st, "A", "B", 10)

		if _, err := st.MineNewBlock(context.Background()); err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		if err := st.SubmitTransaction(tx); !errors.Is(err, database.ErrTxCommitted) {
			t.Fatalf("\t%s\tShould get ErrTxCommitted: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrTxCommitted.", success)

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould not add the transaction to the mempool.", failed)
		}
		t.Logf("\t%s\tShould not add the transaction to the mempool.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to stop mining on shutdown.")
	{
		st := newState(t, 1, 10)
		submit(t, st, "A", "B", 10)

		if err := st.Shutdown(); err != nil {
			t.Fatalf("\t%s\tShould be able to shutdown: %v", failed, err)
		}

		if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, state.ErrMiningNotAllowed) {
			t.Fatalf("\t%s\tShould not be able to mine after shutdown: %v", failed, err)
		}
		t.Logf("\t%s\tShould not be able to mine after shutdown.", success)
	}
}
