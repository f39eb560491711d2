// This program provides a command line client against a running node.
package main

import (
	"github.com/miniledger/miniledger/app/tooling/nodectl/cmd"
)

func main() {
	cmd.Execute()
}
