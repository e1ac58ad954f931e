package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/spend"
)

func sendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <address> <amount-sat|max>",
		Short: "Send satoshis to an address",
		Long: "Builds, signs and broadcasts a payment. The amount is in satoshis;\n" +
			"\"max\" sweeps the entire spendable balance with the fee taken out of it.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := args[0]

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()

			var draft *spend.Draft
			if strings.EqualFold(args[1], "max") {
				draft, err = s.spender.PrepareSendMax(ctx, dest)
			} else {
				amount, perr := strconv.ParseUint(args[1], 10, 64)
				if perr != nil {
					return fmt.Errorf("invalid amount %q: expected satoshis or \"max\"", args[1])
				}
				draft, err = s.spender.PrepareSend(ctx, dest, amount)
			}
			if err != nil {
				return err
			}

			fmt.Printf("To:     %s\n", draft.Destination)
			fmt.Printf("Amount: %s BCH (%d sat)\n", formatBCH(draft.Amount), draft.Amount)
			fmt.Printf("Fee:    %d sat\n", draft.Fee)
			if draft.Change > 0 {
				fmt.Printf("Change: %d sat\n", draft.Change)
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
