package cmd

import (
	"fmt"
	"log"

	"github.com/miniledger/miniledger/foundation/ledger/peer"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// peersCmd represents the peers command
var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Print the status and known peers of the node.",
	Run:   peersRun,
}

func init() {
	rootCmd.AddCommand(peersCmd)
}

func peersRun(cmd *cobra.Command, args []string) {
	var status peer.PeerStatus
	if err := get(fmt.Sprintf("%s/v1/node/status", privateURL), &status); err != nil {
		log.Fatal(err)
	}

	pterm.Info.Printfln("latest block index %d", status.LatestBlockIndex)
	pterm.Info.Printfln("latest block hash %s", shorten(status.LatestBlockHash))
	pterm.Info.Printfln("chain length %d", status.ChainLength)

	if len(status.KnownPeers) == 0 {
		pterm.Info.Printfln("no known peers")
		return
	}

	rows := pterm.TableData{
		{"Host"},
	}
	for _, pr := range status.KnownPeers {
		rows = append(rows, []string{pr.Host})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		log.Fatal(err)
	}
}
