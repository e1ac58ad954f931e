package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions sent by this wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			records, err := s.spender.History(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No sent transactions.")
				return nil
			}

			for _, rec := range records {
				kind := "payment"
				if rec.Data {
					kind = "data"
				}
				fmt.Printf("%s  %-7s  %12d sat  fee %5d  %s\n",
					rec.SentAt.Format("2006-01-02 15:04"), kind, rec.Amount, rec.Fee, rec.TxID)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of records (0 = all)")
	return cmd
}
