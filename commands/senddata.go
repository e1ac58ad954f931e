package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/tx"
)

func senddataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "senddata <message>",
		Short: "Anchor a message on chain in an OP_RETURN output",
		Long: fmt.Sprintf("Builds a transaction carrying the message in an unspendable OP_RETURN output.\n"+
			"Only the mining fee is paid. The payload is limited to %d bytes.", tx.MaxDataPayload),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(args[0])

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()

			draft, err := s.spender.PrepareData(ctx, payload)
			if err != nil {
				return err
			}

			fmt.Printf("Payload: %d bytes\n", draft.PayloadLen)
			fmt.Printf("Fee:     %d sat\n", draft.Fee)
			if draft.Change > 0 {
				fmt.Printf("Change:  %d sat\n", draft.Change)
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm("Broadcast this transaction?") {
				if err := draft.Abandon(); err != nil {
					return err
				}
				fmt.Println("Aborted.")
				return nil
			}

			txid, err := draft.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Broadcast: %s\n", txid)
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
