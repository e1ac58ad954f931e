package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/wallet"
)

func addressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Show the wallet key's address forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := wallet.GetNetwork(appConfig.Network)
			if err != nil {
				return err
			}
			key, err := loadKey(cmd, net)
			if err != nil {
				return err
			}

			cashAddr, err := key.CashAddr()
			if err != nil {
				return err
			}
			legacy, err := key.LegacyAddress()
			if err != nil {
				return err
			}

			fmt.Printf("CashAddr:       %s\n", cashAddr)
			fmt.Printf("Legacy address: %s\n", legacy)
			fmt.Printf("Public key:     %s\n", key.PublicKeyHex())
			return nil
		},
	}
	return cmd
}
