package database_test

import (
	"errors"
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/miniledger/miniledger/foundation/ledger/database/storage/memory"
	"github.com/miniledger/miniledger/foundation/ledger/genesis"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

func Test_Database(t *testing.T) {
	gen := genesis.Genesis{ChainID: 1, Difficulty: 1}

	t.Log("Given the need to maintain the chain in the database.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}

		db, err := database.New(gen, storage, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to open database.", success)

		// A fresh database must start with a genesis block.
		if db.Height() != 1 {
			t.Fatalf("\t%s\tShould start with the genesis block, height %d.", failed, db.Height())
		}
		t.Logf("\t%s\tShould start with the genesis block.", success)

		tip := db.LatestBlock()
		if tip.Index != 0 || tip.Hash != tip.ComputeHash() {
			t.Fatalf("\t%s\tShould have a genesis block that reproduces its hash.", failed)
		}
		t.Logf("\t%s\tShould have a genesis block that reproduces its hash.", success)

		block := mineBlock(t, tip.Index+1, []tx.Tx{tx.New("author", "content")}, tip.Hash, gen.Difficulty)
		if err := db.Write(block); err != nil {
			t.Fatalf("\t%s\tShould be able to write a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to write a block.", success)

		if db.Height() != 2 || db.LatestBlock().Hash != block.Hash {
			t.Fatalf("\t%s\tShould see the written block as the new tip.", failed)
		}
		t.Logf("\t%s\tShould see the written block as the new tip.", success)

		got, err := db.GetBlock(1)
		if err != nil || got.Hash != block.Hash {
			t.Fatalf("\t%s\tShould be able to read the block back by index: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to read the block back by index.", success)

		// Opening a database on the same storage must replay the chain.
		db2, err := database.New(gen, storage, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to reopen the database: %v", failed, err)
		}
		if db2.Height() != 2 || db2.LatestBlock().Hash != block.Hash {
			t.Fatalf("\t%s\tShould get the same chain back from storage.", failed)
		}
		t.Logf("\t%s\tShould get the same chain back from storage.", success)
	}
}

func Test_DatabaseReplace(t *testing.T) {
	gen := genesis.Genesis{ChainID: 1, Difficulty: 1}

	t.Log("Given the need to replace the chain wholesale.")
	{
		storage, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}

		db, err := database.New(gen, storage, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to open database.", success)

		// Build a longer chain rooted at a different genesis block.
		otherGen := database.NewGenesisBlock()
		blk1 := mineBlock(t, 1, []tx.Tx{tx.New("a", "first")}, otherGen.Hash, gen.Difficulty)
		blk2 := mineBlock(t, 2, []tx.Tx{tx.New("b", "second")}, blk1.Hash, gen.Difficulty)
		candidate := []database.Block{otherGen, blk1, blk2}

		if err := db.Replace(candidate); err != nil {
			t.Fatalf("\t%s\tShould be able to replace the chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to replace the chain.", success)

		if db.Height() != 3 || db.LatestBlock().Hash != blk2.Hash {
			t.Fatalf("\t%s\tShould see the candidate tip after the replacement.", failed)
		}
		t.Logf("\t%s\tShould see the candidate tip after the replacement.", success)

		// The storage must hold the new chain as well.
		db2, err := database.New(gen, storage, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to reopen the database: %v", failed, err)
		}
		if db2.Height() != 3 || db2.LatestBlock().Hash != blk2.Hash {
			t.Fatalf("\t%s\tShould get the replaced chain back from storage.", failed)
		}
		t.Logf("\t%s\tShould get the replaced chain back from storage.", success)
	}
}

func Test_DatabaseCorruptStorage(t *testing.T) {
	gen := genesis.Genesis{ChainID: 1, Difficulty: 1}

	t.Log("Given the need to refuse a chain that can't be read back whole.")
	{
		mem, err := memory.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}

		genBlock := database.NewGenesisBlock()
		blk1 := mineBlock(t, 1, []tx.Tx{tx.New("a", "first")}, genBlock.Hash, gen.Difficulty)
		blk2 := mineBlock(t, 2, []tx.Tx{tx.New("b", "second")}, blk1.Hash, gen.Difficulty)
		for _, block := range []database.Block{genBlock, blk1, blk2} {
			if err := mem.Write(block); err != nil {
				t.Fatalf("\t%s\tShould be able to seed storage: %v", failed, err)
			}
		}

		// A read failure in the middle of the chain must fail the open. The
		// valid blocks on either side of it must not be loaded as a shorter
		// chain that happens to validate.
		storage := faultyStorage{inner: mem, failIndex: 1}
		if _, err := database.New(gen, &storage, nopEv); err == nil {
			t.Fatalf("\t%s\tShould refuse to open on a mid chain read failure.", failed)
		}
		t.Logf("\t%s\tShould refuse to open on a mid chain read failure.", success)

		// The same storage without the fault must load the full chain.
		db, err := database.New(gen, mem, nopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open once the fault is gone: %v", failed, err)
		}
		if db.Height() != 3 {
			t.Fatalf("\t%s\tShould load the full chain, height %d.", failed, db.Height())
		}
		t.Logf("\t%s\tShould load the full chain once the fault is gone.", success)
	}
}

// =============================================================================

// faultyStorage wraps a real storage and fails the read of one block index.
type faultyStorage struct {
	inner     database.Storage
	failIndex uint64
}

func (fs *faultyStorage) Write(block database.Block) error { return fs.inner.Write(block) }
func (fs *faultyStorage) Reset() error                     { return fs.inner.Reset() }
func (fs *faultyStorage) Close() error                     { return fs.inner.Close() }

func (fs *faultyStorage) GetBlock(index uint64) (database.Block, error) {
	if index == fs.failIndex {
		return database.Block{}, errors.New("read i/o error")
	}
	return fs.inner.GetBlock(index)
}

func (fs *faultyStorage) ForEach() database.Iterator {
	return &faultyIterator{storage: fs}
}

type faultyIterator struct {
	storage *faultyStorage
	current uint64
	eoc     bool
}

func (fi *faultyIterator) Next() (database.Block, error) {
	if fi.eoc {
		return database.Block{}, database.ErrBlockNotFound
	}

	block, err := fi.storage.GetBlock(fi.current)
	if err != nil {
		fi.eoc = true
	}

	fi.current++

	return block, err
}

func (fi *faultyIterator) Done() bool {
	return fi.eoc
}
