package cmd

import (
	"fmt"
	"net/http"

	"github.com/enset/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-verify every block in the chain",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) error {
	var v public.Verdict
	if _, err := call(http.MethodGet, "/v1/chain/validate", nil, &v); err != nil {
		return err
	}

	if v.Valid {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "chain is valid")
		return err
	}

	var index uint64
	if v.FirstBadIndex != nil {
		index = *v.FirstBadIndex
	}

	return fmt.Errorf("chain is invalid at block %d: %s: %s", index, v.Reason, v.Detail)
}
