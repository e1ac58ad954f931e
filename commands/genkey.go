package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/wallet"
)

func genkeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a new wallet key",
		Long: "Generates a fresh private key and prints its WIF and addresses.\n" +
			"With --save the key is encrypted with a password and stored in the data directory.\n" +
			"With --mnemonic a BIP39 phrase is generated instead and the first receive key derived from it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := wallet.GetNetwork(appConfig.Network)
			if err != nil {
				return err
			}

			var key *wallet.Key
			if useMnemonic, _ := cmd.Flags().GetBool("mnemonic"); useMnemonic {
				key, err = generateFromMnemonic(net)
			} else {
				key, err = wallet.NewKey(net)
			}
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

			fmt.Printf("WIF:            %s\n", key.WIF())
			fmt.Printf("CashAddr:       %s\n", cashAddr)
			fmt.Printf("Legacy address: %s\n", legacy)
			fmt.Printf("Public key:     %s\n", key.PublicKeyHex())

			if save, _ := cmd.Flags().GetBool("save"); save {
				return saveKey(key)
			}
			fmt.Println("\nKey NOT saved. Re-run with --save to store it encrypted, or keep the WIF somewhere safe.")
			return nil
		},
	}

	cmd.Flags().Bool("save", false, "encrypt and store the key in the data directory")
	cmd.Flags().Bool("mnemonic", false, "generate a 12-word BIP39 phrase and derive the key from it")
	return cmd
}

func generateFromMnemonic(net *wallet.NetworkConfig) (*wallet.Key, error) {
	mnemonic, err := wallet.GenerateMnemonic(wallet.Mnemonic12Words)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Mnemonic:       %s\n", mnemonic)
	fmt.Printf("Path:           %s\n", wallet.Path(0, wallet.ExternalChain, 0))

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	hd, err := wallet.NewHDWallet(seed, net)
	if err != nil {
		return nil, err
	}
	return hd.DeriveReceiveKey(0)
}

func saveKey(key *wallet.Key) error {
	password, err := promptPassword("Choose a wallet password: ")
	if err != nil {
		return err
	}
	again, err := promptPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != again {
		return fmt.Errorf("passwords do not match")
	}

	path := keyFilePath(appConfig)
	if err := wallet.SaveKeyFile(path, key, password); err != nil {
		return err
	}
	fmt.Printf("Key saved to %s\n", path)
	return nil
}
