package cmd

import (
	"fmt"
	"log"

	"github.com/miniledger/miniledger/foundation/ledger/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain of the node.",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	var dump database.ChainDump
	if err := get(fmt.Sprintf("%s/v1/chain/list", nodeURL), &dump); err != nil {
		log.Fatal(err)
	}

	rows := pterm.TableData{
		{"Index", "Txs", "Nonce", "Hash", "Previous Hash"},
	}
	for _, block := range dump.Chain {
		rows = append(rows, []string{
			fmt.Sprintf("%d", block.Index),
			fmt.Sprintf("%d", len(block.Trans)),
			fmt.Sprintf("%d", block.Nonce),
			shorten(block.Hash),
			shorten(block.PrevBlockHash),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		log.Fatal(err)
	}

	pterm.Info.Printfln("chain length %d", dump.Length)
}

func shorten(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + ".." + hash[len(hash)-8:]
}
