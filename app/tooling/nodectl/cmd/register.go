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

var peerHost string

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a peer with the node.",
	Run:   registerRun,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&peerHost, "host", "", "Host of the peer to register.")
	registerCmd.MarkFlagRequired("host")
}

func registerRun(cmd *cobra.Command, args []string) {
	reg := struct {
		Host string `json:"host"`
	}{
		Host: peerHost,
	}

	data, err := json.Marshal(reg)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/node/peer/register", privateURL), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		pterm.Error.Printfln("node answered with status %s", resp.Status)
		return
	}

	var reply struct {
		Length     int `json:"length"`
		KnownPeers []struct {
			Host string `json:"host"`
		} `json:"known_peers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		log.Fatal(err)
	}

	pterm.Success.Printfln("registered %s, node chain length %d, known peers %d", peerHost, reply.Length, len(reply.KnownPeers))
}
