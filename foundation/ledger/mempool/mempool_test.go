package mempool_test

import (
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/mempool"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []tx.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []tx.Tx{
				{Author: "alice", Content: "first", TimeStamp: 1},
				{Author: "bob", Content: "second", TimeStamp: 2},
				{Author: "carol", Content: "third", TimeStamp: 3},
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for _, trans := range tst.txs {
						mp.Add(trans)
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, trans.Author)
					}

					if mp.Count() != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould get back the right count, got %d.", failed, testID, mp.Count())
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right count.", success, testID)

					// The pool keeps arrival order.
					for i, trans := range mp.Copy() {
						if trans != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, trans)
							t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the transactions in arrival order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the transactions in arrival order.", success, testID)

					mp.Delete(tst.txs[1])
					if mp.Count() != len(tst.txs)-1 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					// Deleting a transaction that isn't pooled is a no op.
					mp.Delete(tx.Tx{Author: "nobody", Content: "missing"})
					if mp.Count() != len(tst.txs)-1 {
						t.Fatalf("\t%s\tTest %d:\tShould ignore deleting an unknown transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould ignore deleting an unknown transaction.", success, testID)

					for _, trans := range mp.Copy() {
						mp.Delete(trans)
					}
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to drain the mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to drain the mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
