package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bchwalletorg/libbchwallet-go/network"
	"github.com/bchwalletorg/libbchwallet-go/spend"
	"github.com/bchwalletorg/libbchwallet-go/store"
	"github.com/bchwalletorg/libbchwallet-go/wallet"
)

// session bundles everything an online command needs. Close releases the
// ledger.
type session struct {
	spender *spend.Spender
	ledger  *store.Ledger
	chain   *network.RPCClient
	key     *wallet.Key
}

// openSession loads the wallet key, connects the RPC client, and opens the
// spend ledger.
func openSession(cmd *cobra.Command) (*session, error) {
	net, err := wallet.GetNetwork(appConfig.Network)
	if err != nil {
		return nil, err
	}

	key, err := loadKey(cmd, net)
	if err != nil {
		return nil, err
	}

	rpcCfg, err := network.ResolveConfig(&network.RPCConfig{
		URL:      appConfig.RPCURL,
		User:     appConfig.RPCUser,
		Password: appConfig.RPCPass,
	}, envMap(), appConfig.Network)
	if err != nil {
		return nil, err
	}

	ledger, err := store.OpenLedger(ledgerPath(appConfig))
	if err != nil {
		return nil, err
	}

	chain := network.NewRPCClient(*rpcCfg)
	spender, err := spend.NewSpender(chain, ledger, key, appConfig.FeeRate)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	return &session{spender: spender, ledger: ledger, chain: chain, key: key}, nil
}

func (s *session) Close() {
	_ = s.ledger.Close()
}

// loadKey resolves the signing key: the --wif flag wins, otherwise the
// encrypted key file is unlocked with a password prompt.
func loadKey(cmd *cobra.Command, net *wallet.NetworkConfig) (*wallet.Key, error) {
	if wif, _ := cmd.Root().PersistentFlags().GetString("wif"); wif != "" {
		return wallet.FromWIF(wif, net)
	}

	path := keyFilePath(appConfig)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no key file at %s (run %q first, or pass --wif)", path, rootCmdName+" genkey --save")
	}

	password, err := promptPassword("Wallet password: ")
	if err != nil {
		return nil, err
	}
	return wallet.LoadKeyFile(path, password, net)
}

// envMap exposes the BCHW_* RPC environment overrides.
func envMap() map[string]string {
	return map[string]string{
		"BCHW_RPC_URL":  os.Getenv("BCHW_RPC_URL"),
		"BCHW_RPC_USER": os.Getenv("BCHW_RPC_USER"),
		"BCHW_RPC_PASS": os.Getenv("BCHW_RPC_PASS"),
	}
}

// promptPassword reads a password without echoing when stdin is a terminal,
// falling back to a plain line read otherwise (tests, pipes).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question on the terminal and returns true only for
// an explicit yes.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// formatBCH renders satoshis as a BCH decimal string.
func formatBCH(sats uint64) string {
	whole := sats / 1e8
	frac := sats % 1e8
	return fmt.Sprintf("%d.%08d", whole, frac)
}
