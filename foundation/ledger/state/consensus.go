package state

import (
	"fmt"

	"github.com/miniledger/miniledger/foundation/ledger/database"
)

// Resolution represents the outcome of a consensus resolution.
type Resolution string

// The set of resolution outcomes.
const (
	ResolutionReplaced Resolution = "replaced"
	ResolutionKept     Resolution = "kept"
)

// =============================================================================

// ReplaceChain swaps the local chain for the candidate. The candidate must be
// strictly longer than the local chain and pass full validation. Pending
// transactions are preserved, they are this node's own unconfirmed work and
// remain minable on top of the adopted chain.
func (s *State) ReplaceChain(candidate []database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidate) <= s.db.Height() {
		return fmt.Errorf("candidate length %d is not greater than current length %d", len(candidate), s.db.Height())
	}

	if err := database.ValidateChain(candidate, s.genesis.Difficulty, s.evHandler); err != nil {
		return fmt.Errorf("candidate chain is invalid: %w", err)
	}

	s.evHandler("state: ReplaceChain: replacing chain: old[%d] new[%d]", s.db.Height(), len(candidate))

	return s.db.Replace(candidate)
}

// ResolveChains compares the local chain against the specified chain dumps
// and replaces the local chain when a strictly longer valid one exists.
// Candidates are screened without holding the state lock; the lock is taken
// only for the final swap inside ReplaceChain.
func (s *State) ResolveChains(dumps []database.ChainDump) Resolution {
	s.evHandler("state: ResolveChains: started: candidates[%d]", len(dumps))
	defer s.evHandler("state: ResolveChains: completed")

	// Select the longest valid candidate. First seen wins ties, which only
	// matters between candidates since equal length against the local chain
	// never triggers a replacement at all.
	var best []database.Block
	localLength := s.db.Height()

	for _, dump := range dumps {
		if dump.Length != len(dump.Chain) {
			s.evHandler("state: ResolveChains: WARNING: reported length %d does not match chain of %d blocks, skipping", dump.Length, len(dump.Chain))
			continue
		}
		if len(dump.Chain) <= localLength || len(dump.Chain) <= len(best) {
			continue
		}
		if err := database.ValidateChain(dump.Chain, s.genesis.Difficulty, s.evHandler); err != nil {
			s.evHandler("state: ResolveChains: WARNING: candidate of %d blocks is invalid, skipping: %s", len(dump.Chain), err)
			continue
		}

		best = dump.Chain
	}

	if best == nil {
		return ResolutionKept
	}

	if err := s.ReplaceChain(best); err != nil {
		s.evHandler("state: ResolveChains: WARNING: %s", err)
		return ResolutionKept
	}

	return ResolutionReplaced
}

// Resolve pulls the chain from every known peer and resolves consensus
// against them. Fetch failures are skipped per peer, not fatal to the
// resolution.
func (s *State) Resolve() Resolution {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	var dumps []database.ChainDump
	for _, pr := range s.RetrieveKnownPeers() {
		dump, err := s.NetRequestPeerChain(pr)
		if err != nil {
			s.evHandler("state: Resolve: WARNING: %s: %s", pr.Host, err)
			continue
		}
		dumps = append(dumps, dump)
	}

	return s.ResolveChains(dumps)
}
