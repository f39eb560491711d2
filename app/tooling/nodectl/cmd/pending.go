package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/miniledger/miniledger/foundation/ledger/tx"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the unconfirmed transactions of the node.",
	Run:   pendingRun,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func pendingRun(cmd *cobra.Command, args []string) {
	var txs []tx.Tx
	if err := get(fmt.Sprintf("%s/v1/tx/pending/list", nodeURL), &txs); err != nil {
		log.Fatal(err)
	}

	if len(txs) == 0 {
		pterm.Info.Printfln("no pending transactions")
		return
	}

	rows := pterm.TableData{
		{"Author", "Content", "Time"},
	}
	for _, t := range txs {
		rows = append(rows, []string{
			t.Author,
			t.Content,
			time.Unix(int64(t.TimeStamp), 0).UTC().Format(time.RFC3339),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		log.Fatal(err)
	}
}
