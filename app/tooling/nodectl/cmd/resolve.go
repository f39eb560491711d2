package cmd

import (
	"fmt"
	"log"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus resolution against the known peers.",
	Run:   resolveRun,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Resolution string `json:"resolution"`
		Length     int    `json:"length"`
	}
	if err := get(fmt.Sprintf("%s/v1/node/consensus/resolve", privateURL), &resp); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("chain %s, length %d", resp.Resolution, resp.Length)
}
