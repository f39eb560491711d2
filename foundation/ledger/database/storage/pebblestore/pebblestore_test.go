package pebblestore_test

import (
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/database/storage/pebblestore"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

func Test_ReadWrite(t *testing.T) {
	storage, err := pebblestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to open storage: %v", err)
	}
	defer storage.Close()

	gen := database.NewGenesisBlock()
	blk := database.NewBlock(1, []tx.Tx{tx.New("alice", "hello")}, gen.Hash)
	blk.Hash = blk.ComputeHash()

	for _, b := range []database.Block{gen, blk} {
		if err := storage.Write(b); err != nil {
			t.Fatalf("Should be able to write block %d: %v", b.Index, err)
		}
	}

	got, err := storage.GetBlock(1)
	if err != nil {
		t.Fatalf("Should be able to read a block back: %v", err)
	}
	if got.Hash != blk.Hash || len(got.Trans) != 1 || got.Trans[0] != blk.Trans[0] {
		t.Log("got:", got)
		t.Log("exp:", blk)
		t.Fatal("Should get back the same block contents.")
	}

	if _, err := storage.GetBlock(9); err == nil {
		t.Fatal("Should not be able to read a missing block.")
	}

	var count int
	iter := storage.ForEach()
	for _, err := iter.Next(); !iter.Done(); _, err = iter.Next() {
		if err != nil {
			t.Fatalf("Should be able to iterate the blocks: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("Should iterate over all the blocks, got %d.", count)
	}

	if err := storage.Reset(); err != nil {
		t.Fatalf("Should be able to reset the storage: %v", err)
	}
	if _, err := storage.GetBlock(0); err == nil {
		t.Fatal("Should not find blocks after a reset.")
	}
}
