package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miniledger/miniledger/foundation/ledger/digest"
	"github.com/miniledger/miniledger/foundation/ledger/tx"
)

// ErrInvalidBlock is returned when a block's stored hash doesn't reproduce
// from its contents or doesn't satisfy the difficulty rule.
var ErrInvalidBlock = errors.New("invalid block")

// ErrBrokenLinkage is returned when a block doesn't link against the block it
// claims to follow. The caller holds a stale view of the chain tip.
var ErrBrokenLinkage = errors.New("broken linkage")

// =============================================================================

// Block represents a position in the chain and the group of transactions
// mined into it. The stored Hash is a cache of ComputeHash and must never be
// trusted without recomputing. The JSON encoding of this type is both the
// wire format between nodes and the storage format on disk.
type Block struct {
	Index         uint64  `json:"index"`
	TimeStamp     uint64  `json:"timestamp"`
	Trans         []tx.Tx `json:"transactions"`
	PrevBlockHash string  `json:"previous_hash"`
	Nonce         uint64  `json:"nonce"`
	Hash          string  `json:"hash"`
}

// hashScope is the exact content a block digest covers. The stored hash is
// excluded so the digest is never self-referential, and the index is excluded
// because linkage is carried entirely by the previous hash.
type hashScope struct {
	TimeStamp     uint64  `json:"timestamp"`
	Trans         []tx.Tx `json:"transactions"`
	PrevBlockHash string  `json:"previous_hash"`
	Nonce         uint64  `json:"nonce"`
}

// NewBlock constructs a candidate block for mining. The timestamp is captured
// once here and never mutated after. The hash stays unset until mining has
// settled the final nonce.
func NewBlock(index uint64, trans []tx.Tx, prevBlockHash string) Block {
	return Block{
		Index:         index,
		TimeStamp:     uint64(time.Now().UTC().Unix()),
		Trans:         trans,
		PrevBlockHash: prevBlockHash,
	}
}

// NewGenesisBlock constructs the fixed first block of a chain. The genesis
// block carries no transactions, links against the zero hash sentinel and is
// exempt from the difficulty rule, but its hash is still computed and stored.
func NewGenesisBlock() Block {
	b := NewBlock(0, []tx.Tx{}, digest.ZeroHash)
	b.Hash = b.ComputeHash()
	return b
}

// ComputeHash returns the digest for the block. It is a pure function of
// (timestamp, transactions, previous hash, nonce) and is idempotent for an
// unmutated block.
func (b Block) ComputeHash() string {
	return digest.Hash(hashScope{
		TimeStamp:     b.TimeStamp,
		Trans:         b.Trans,
		PrevBlockHash: b.PrevBlockHash,
		Nonce:         b.Nonce,
	})
}

// POW performs the work of mining to find a nonce that solves the hash puzzle
// for the specified difficulty. The search starts from the block's current
// nonce and increments by one, so the same block content always settles on
// the same nonce. On return the block's nonce holds the winning value and the
// satisfying digest is returned; storing it in the block's hash field is the
// caller's responsibility. Pointer semantics are being used since a nonce is
// being discovered.
func (b *Block) POW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) (string, error) {
	ev("database: POW: MINING: started: blk[%d]", b.Index)
	defer ev("database: POW: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		// Did the mining get cancelled.
		if ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED")
			return "", ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.ComputeHash()
		if !digest.IsHashSolved(difficulty, hash) {
			b.Nonce++
			continue
		}

		ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.PrevBlockHash, hash)
		ev("database: POW: MINING: attempts[%d]", attempts)

		return hash, nil
	}
}

// ValidateBlock takes a block and validates it to be included into the chain
// directly after the specified previous block. Every acceptance path runs
// through here, so a proof computed for one set of contents can never be
// replayed for another.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: validate: blk[%d]: check: block index is the next index", b.Index)

	nextIndex := previousBlock.Index + 1
	if b.Index != nextIndex {
		return fmt.Errorf("%w: this block is not the next index, got %d, exp %d", ErrBrokenLinkage, b.Index, nextIndex)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: previous hash does match previous block", b.Index)

	if b.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("%w: previous block hash doesn't match our known previous, got %s, exp %s", ErrBrokenLinkage, b.PrevBlockHash, previousBlock.Hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: stored hash does reproduce from contents", b.Index)

	hash := b.ComputeHash()
	if b.Hash != hash {
		return fmt.Errorf("%w: stored hash doesn't reproduce, got %s, exp %s", ErrInvalidBlock, b.Hash, hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Index)

	if !digest.IsHashSolved(difficulty, hash) {
		return fmt.Errorf("%w: %s does not solve difficulty %d", ErrInvalidBlock, hash, difficulty)
	}

	return nil
}

// ValidateChain walks the specified chain from genesis forward and checks the
// internal consistency of every block. It fails closed, any single broken
// link invalidates the whole chain. The genesis block is exempt from the
// difficulty and linkage checks but its stored hash must still reproduce.
func ValidateChain(chain []Block, difficulty uint, ev func(v string, args ...any)) error {
	if len(chain) == 0 {
		return errors.New("chain is empty, genesis block missing")
	}

	gen := chain[0]
	if gen.Index != 0 {
		return fmt.Errorf("%w: first block carries index %d, exp 0", ErrBrokenLinkage, gen.Index)
	}
	if gen.Hash != gen.ComputeHash() {
		return fmt.Errorf("%w: genesis hash doesn't reproduce", ErrInvalidBlock)
	}

	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], difficulty, ev); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// ChainDump represents a full chain as served to and received from peers.
// It carries everything needed to reconstruct and re-validate the chain
// from scratch.
type ChainDump struct {
	Length int     `json:"length"`
	Chain  []Block `json:"chain"`
}

// NewChainDump constructs the value to serialize for a peer.
func NewChainDump(chain []Block) ChainDump {
	return ChainDump{
		Length: len(chain),
		Chain:  chain,
	}
}
