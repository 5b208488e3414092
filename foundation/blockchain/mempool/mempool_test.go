package mempool_test

import (
	"errors"
	"testing"

	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
		best int
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{ID: "2", From: "A", To: "B", Amount: 10},
				{ID: "3", From: "B", To: "C", Amount: 50},
				{ID: "4", From: "C", To: "D", Amount: 100},
				{ID: "1", From: "D", To: "A", Amount: 10},
			},
			best: 2,
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for _, tx := range tst.txs {
						if _, err := mp.Insert(tx); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add new transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx.ID)
					}

					if _, err := mp.Insert(tst.txs[0]); !errors.Is(err, mempool.ErrDuplicateTransaction) {
						t.Fatalf("\t%s\tTest %d:\tShould not be able to add a transaction twice: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould not be able to add a transaction twice.", success, testID)

					for i, tx := range mp.Copy() {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the transactions in arrival order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the transactions in arrival order.", success, testID)

					best := mp.PickBest(tst.best)
					if len(best) != tst.best || best[0] != tst.txs[0] || best[1] != tst.txs[1] {
						t.Fatalf("\t%s\tTest %d:\tShould pick the oldest transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the oldest transactions.", success, testID)

					if got := len(mp.PickBest(100)); got != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould pick no more than the pool holds, got %d.", failed, testID, got)
					}
					t.Logf("\t%s\tTest %d:\tShould pick no more than the pool holds.", success, testID)

					mp.Delete(mp.Copy()[1])
					if l := mp.Count(); l != 3 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					if mp.Copy()[1] != tst.txs[2] {
						t.Fatalf("\t%s\tTest %d:\tShould keep the order after a remove.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					mp.Truncate()
					if l := len(mp.Copy()); l != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
