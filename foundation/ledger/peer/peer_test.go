package peer_test

import (
	"testing"

	"github.com/miniledger/miniledger/foundation/ledger/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, pr := range tst.peers {
				if !ps.Add(pr) {
					t.Fatalf("Test %s:\tShould report a new peer as added: %s", tst.name, pr.Host)
				}
			}

			// Adding a known peer again must report false.
			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould report a known peer as not added.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the peers without the excluded host.", tst.name)
			}

			ps.Remove(tst.peers[2])
			peers = ps.Copy("")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the peers without the removed host.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
