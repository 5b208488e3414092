package database_test

import (
	"errors"
	"testing"

	"github.com/enset/powledger/foundation/blockchain/database"
	"github.com/enset/powledger/foundation/validate"
)

func Test_NewTx(t *testing.T) {
	type table struct {
		name   string
		from   string
		to     string
		amount int64
		data   string
		valid  bool
		fields bool
	}

	tt := []table{
		{name: "basic", from: "A", to: "B", amount: 10, valid: true},
		{name: "zero", from: "A", to: "B", amount: 0, valid: true},
		{name: "mint", from: "A", to: "A", amount: 100, data: database.TxDataMint, valid: true},
		{name: "negative", from: "A", to: "B", amount: -1, fields: true},
		{name: "no-sender", from: "", to: "B", amount: 1, fields: true},
		{name: "no-receiver", from: "A", to: "", amount: 1, fields: true},
		{name: "to-self", from: "A", to: "A", amount: 1},
		{name: "invalid-sender-utf8", from: "A\xff", to: "B", amount: 1},
		{name: "invalid-receiver-utf8", from: "A", to: "B\xc3", amount: 1},
		{name: "invalid-data-utf8", from: "A", to: "B", amount: 1, data: "\xfe\xff"},
		{name: "replacement-char", from: "A\uFFFD", to: "B", amount: 1, valid: true},
	}

	t.Log("Given the need to construct transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx, err := database.NewTx(tst.from, tst.to, tst.amount, tst.data)

					if tst.valid {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to construct the transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to construct the transaction.", success, testID)

						if tx.ID == "" {
							t.Fatalf("\t%s\tTest %d:\tShould get a unique id.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get a unique id.", success, testID)
						return
					}

					if !errors.Is(err, database.ErrInvalidTransaction) {
						t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidTransaction: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get ErrInvalidTransaction.", success, testID)

					if validate.IsFieldErrors(err) != tst.fields {
						t.Fatalf("\t%s\tTest %d:\tShould report field errors only for tag failures: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould report field errors only for tag failures.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TxEquality(t *testing.T) {
	t.Log("Given the need to compare transactions.")
	{
		tx1 := newTx(t, "A", "B", 10)
		tx2 := tx1

		if tx1 != tx2 {
			t.Fatalf("\t%s\tShould be equal field by field.", failed)
		}
		t.Logf("\t%s\tShould be equal field by field.", success)

		tx3 := newTx(t, "A", "B", 10)
		if tx1 == tx3 {
			t.Fatalf("\t%s\tShould get different ids for different transactions.", failed)
		}
		t.Logf("\t%s\tShould get different ids for different transactions.", success)
	}
}
