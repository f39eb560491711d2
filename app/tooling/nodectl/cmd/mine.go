package cmd

import (
	"fmt"
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Signal the node to mine the pending transactions.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := get(fmt.Sprintf("%s/v1/mining/signal", nodeURL), &resp); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("%s", resp.Status)
}
