// This program is a command line client for a running ledger node.
package main

import "github.com/enset/powledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
