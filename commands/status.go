package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/network"
)

func statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the wallet address, balance and chain state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()

			addr, err := s.spender.Address()
			if err != nil {
				return err
			}
			count, balance, err := s.spender.Unspent(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Network:  %s\n", appConfig.Network)
			fmt.Printf("Address:  %s\n", addr)
			fmt.Printf("Balance:  %s BCH (%d sat, %d unspent outputs)\n", formatBCH(balance), balance, count)

			if height, err := s.chain.GetBestBlockHeight(ctx); err == nil {
				fmt.Printf("Height:   %d\n", height)
			}

			price, err := network.NewPriceClient("").USDPrice(ctx)
			if err != nil {
				fmt.Println("Value:    USD price unavailable")
				return nil
			}
			usd := float64(balance) / 1e8 * price
			fmt.Printf("Value:    $%.2f (1 BCH = $%.2f)\n", usd, price)
			return nil
		},
	}
	return cmd
}
