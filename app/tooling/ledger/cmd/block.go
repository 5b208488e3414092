package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/enset/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

// blockCmd represents the block command
var blockCmd = &cobra.Command{
	Use:   "block <index>",
	Short: "Print the block at the index with its transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  blockRun,
}

func init() {
	rootCmd.AddCommand(blockCmd)
}

func blockRun(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], err)
	}

	var block public.Block
	if _, err := call(http.MethodGet, fmt.Sprintf("/v1/blocks/%d", index), nil, &block); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), block)
}
