package tx_test

import (
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

func Test_Validate(t *testing.T) {
	type table struct {
		name  string
		tx    tx.Tx
		valid bool
	}

	tt := []table{
		{
			name:  "valid",
			tx:    tx.New("alice", "hello"),
			valid: true,
		},
		{
			name:  "missing author",
			tx:    tx.Tx{Content: "hello", TimeStamp: 1},
			valid: false,
		},
		{
			name:  "missing content",
			tx:    tx.Tx{Author: "alice", TimeStamp: 1},
			valid: false,
		},
		{
			name:  "empty",
			tx:    tx.Tx{},
			valid: false,
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := tst.tx.Validate()

			if tst.valid && err != nil {
				t.Fatalf("Test %s:\tShould be able to validate the transaction: %v", tst.name, err)
			}
			if !tst.valid && err == nil {
				t.Fatalf("Test %s:\tShould not be able to validate the transaction.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_New(t *testing.T) {
	trans := tx.New("alice", "hello")

	if trans.Author != "alice" || trans.Content != "hello" {
		t.Fatal("Should carry the author and content.")
	}

	if trans.TimeStamp == 0 {
		t.Fatal("Should be stamped with the submission time.")
	}
}
