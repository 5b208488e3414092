package cmd

import (
	"net/http"

	"github.com/enset/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a new block",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var block public.Block
	if _, err := call(http.MethodPost, "/v1/mining/mine", nil, &block); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), block)
}
