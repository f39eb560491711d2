package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/digest"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// nopEv keeps the event output out of the test logs.
func nopEv(v string, args ...any) {}

func mineBlock(t *testing.T, index uint64, trans []tx.Tx, prevBlockHash string, difficulty uint) database.Block {
	t.Helper()

	block := database.NewBlock(index, trans, prevBlockHash)
	hash, err := block.POW(context.Background(), difficulty, nopEv)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
	}
	block.Hash = hash

	return block
}

// =============================================================================

func Test_POW(t *testing.T) {
	const difficulty = 2

	t.Log("Given the need to mine a block with proof of work.")
	{
		gen := database.NewGenesisBlock()
		trans := []tx.Tx{tx.New("author", "content")}

		block := mineBlock(t, gen.Index+1, trans, gen.Hash, difficulty)
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if !strings.HasPrefix(block.Hash, "00") {
			t.Fatalf("\t%s\tShould get back a hash that solves the difficulty: %s", failed, block.Hash)
		}
		t.Logf("\t%s\tShould get back a hash that solves the difficulty.", success)

		if block.Hash != block.ComputeHash() {
			t.Logf("\t\tgot: %s", block.ComputeHash())
			t.Logf("\t\texp: %s", block.Hash)
			t.Fatalf("\t%s\tShould get back a hash that reproduces from the contents.", failed)
		}
		t.Logf("\t%s\tShould get back a hash that reproduces from the contents.", success)

		// The search increments the nonce from zero, so the same content
		// settles on the same nonce.
		again := block
		again.Nonce = 0
		again.Hash = ""
		hash, err := again.POW(context.Background(), difficulty, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the block again: %v", failed, err)
		}
		if again.Nonce != block.Nonce || hash != block.Hash {
			t.Logf("\t\tgot: nonce[%d] hash[%s]", again.Nonce, hash)
			t.Logf("\t\texp: nonce[%d] hash[%s]", block.Nonce, block.Hash)
			t.Fatalf("\t%s\tShould settle on the same nonce for the same contents.", failed)
		}
		t.Logf("\t%s\tShould settle on the same nonce for the same contents.", success)
	}
}

func Test_POWCancel(t *testing.T) {
	t.Log("Given the need to cancel a mining operation.")
	{
		gen := database.NewGenesisBlock()
		block := database.NewBlock(gen.Index+1, []tx.Tx{tx.New("author", "content")}, gen.Hash)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := block.POW(ctx, 32, nopEv); !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould get back a context cancelled error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get back a context cancelled error.", success)
	}
}

func Test_ValidateBlock(t *testing.T) {
	const difficulty = 1

	gen := database.NewGenesisBlock()
	trans := []tx.Tx{tx.New("author", "content")}
	good := mineBlock(t, gen.Index+1, trans, gen.Hash, difficulty)

	type table struct {
		name   string
		mutate func(b database.Block) database.Block
		err    error
	}

	tt := []table{
		{
			name:   "valid",
			mutate: func(b database.Block) database.Block { return b },
			err:    nil,
		},
		{
			name: "wrong index",
			mutate: func(b database.Block) database.Block {
				b.Index = 5
				return b
			},
			err: database.ErrBrokenLinkage,
		},
		{
			name: "wrong previous hash",
			mutate: func(b database.Block) database.Block {
				b.PrevBlockHash = digest.ZeroHash
				return b
			},
			err: database.ErrBrokenLinkage,
		},
		{
			name: "tampered transactions",
			mutate: func(b database.Block) database.Block {
				b.Trans = []tx.Tx{tx.New("attacker", "other content")}
				return b
			},
			err: database.ErrInvalidBlock,
		},
		{
			name: "tampered nonce",
			mutate: func(b database.Block) database.Block {
				b.Nonce++
				return b
			},
			err: database.ErrInvalidBlock,
		},
		{
			name: "recomputed hash without work",
			mutate: func(b database.Block) database.Block {
				b.Trans = []tx.Tx{tx.New("attacker", "other content")}
				b.Hash = b.ComputeHash()
				return b
			},
			err: database.ErrInvalidBlock,
		},
	}

	t.Log("Given the need to validate a block against its previous block.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					block := tst.mutate(good)

					err := block.ValidateBlock(gen, difficulty, nopEv)

					if tst.err == nil {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to validate the block: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to validate the block.", success, testID)
						return
					}

					if !errors.Is(err, tst.err) {
						t.Logf("\t\tTest %d:\tgot: %v", testID, err)
						t.Logf("\t\tTest %d:\texp: %v", testID, tst.err)
						t.Fatalf("\t%s\tTest %d:\tShould get back the right validation error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right validation error.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidateChain(t *testing.T) {
	const difficulty = 1

	gen := database.NewGenesisBlock()
	blk1 := mineBlock(t, 1, []tx.Tx{tx.New("a", "first")}, gen.Hash, difficulty)
	blk2 := mineBlock(t, 2, []tx.Tx{tx.New("b", "second")}, blk1.Hash, difficulty)
	chain := []database.Block{gen, blk1, blk2}

	t.Log("Given the need to validate a full chain.")
	{
		if err := database.ValidateChain(chain, difficulty, nopEv); err != nil {
			t.Fatalf("\t%s\tShould be able to validate the chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to validate the chain.", success)

		if err := database.ValidateChain(nil, difficulty, nopEv); err == nil {
			t.Fatalf("\t%s\tShould not be able to validate an empty chain.", failed)
		}
		t.Logf("\t%s\tShould not be able to validate an empty chain.", success)

		// Rewriting history in the middle must break the link to the block
		// after it.
		tampered := make([]database.Block, len(chain))
		copy(tampered, chain)
		tampered[1].Trans = []tx.Tx{tx.New("attacker", "rewritten")}
		tampered[1].Hash = tampered[1].ComputeHash()

		if err := database.ValidateChain(tampered, difficulty, nopEv); !errors.Is(err, database.ErrBrokenLinkage) && !errors.Is(err, database.ErrInvalidBlock) {
			t.Fatalf("\t%s\tShould not be able to validate a tampered chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould not be able to validate a tampered chain.", success)
	}
}
