package cmd

import (
	"fmt"
	"net/http"

	"github.com/enset/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount int64
	data   string
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a transaction to the mempool",
	RunE:  submitRun,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&from, "from", "f", "", "Sender of the transaction.")
	submitCmd.Flags().StringVarP(&to, "to", "t", "", "Receiver of the transaction.")
	submitCmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount to send.")
	submitCmd.Flags().StringVarP(&data, "data", "d", "", "Data to attach, use mint to create value.")
}

func submitRun(cmd *cobra.Command, args []string) error {
	st := public.SubmitTx{
		From:   from,
		To:     to,
		Amount: amount,
		Data:   data,
	}

	var resp struct {
		Status string    `json:"status"`
		Tx     public.Tx `json:"tx"`
	}
	if _, err := call(http.MethodPost, "/v1/tx/submit", st, &resp); err != nil {
		return err
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Status, resp.Tx.ID)
	return err
}
