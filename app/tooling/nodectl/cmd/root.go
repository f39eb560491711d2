// Package cmd contains the nodectl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	nodeURL    string
	privateURL string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node public API.")
	rootCmd.PersistentFlags().StringVarP(&privateURL, "private-url", "p", "http://localhost:9080", "Url of the node private API.")
}

var rootCmd = &cobra.Command{
	Use:   "nodectl",
	Short: "A client for the ledger node",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// get performs a GET against the node and decodes the JSON answer.
func get(url string, dataRecv any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node answered with status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(dataRecv)
}
