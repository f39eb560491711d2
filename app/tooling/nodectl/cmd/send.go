package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	author  string
	content string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&author, "author", "a", "", "Author of the transaction.")
	sendCmd.Flags().StringVarP(&content, "content", "c", "", "Content of the transaction.")
	sendCmd.MarkFlagRequired("author")
	sendCmd.MarkFlagRequired("content")
}

func sendRun(cmd *cobra.Command, args []string) {
	tx := struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}{
		Author:  author,
		Content: content,
	}

	data, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", nodeURL), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		pterm.Error.Printfln("node answered with status %s", resp.Status)
		return
	}

	pterm.Success.Printfln("transaction from %s added to mempool", author)
}
