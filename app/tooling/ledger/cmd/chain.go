package cmd

import (
	"fmt"
	"net/http"

	"github.com/enset/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var account string

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print a summary of every block in the chain",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().StringVarP(&account, "account", "a", "", "Only show blocks touching this account.")
}

func chainRun(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if account != "" {
		var blocks []public.Block
		if _, err := call(http.MethodGet, "/v1/blocks/list/"+account, nil, &blocks); err != nil {
			return err
		}
		return printJSON(w, blocks)
	}

	var blocks []public.BlockSummary
	if _, err := call(http.MethodGet, "/v1/blocks/list", nil, &blocks); err != nil {
		return err
	}

	for _, b := range blocks {
		fmt.Fprintf(w, "%6d  %s  prev:%.12s  nonce:%d  txs:%d\n", b.Index, b.Hash, b.PrevBlockHash, b.Nonce, b.TransactionCount)
	}

	return nil
}
