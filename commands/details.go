package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func detailsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "details <txid>",
		Short: "Show a transaction's confirmation status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txid := args[0]
			if _, err := hex.DecodeString(txid); err != nil || len(txid) != 64 {
				return fmt.Errorf("invalid txid %q", txid)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			status, err := s.spender.TxDetails(cmd.Context(), txid)
			if err != nil {
				return err
			}

			fmt.Printf("TxID:      %s\n", txid)
			if status.Confirmed {
				fmt.Printf("Status:    confirmed\n")
				fmt.Printf("Block:     %s (height %d)\n", status.BlockHash, status.BlockHeight)
			} else {
				fmt.Printf("Status:    unconfirmed (in mempool)\n")
			}
			return nil
		},
	}
	return cmd
}
