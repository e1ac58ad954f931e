// Package commands implements the bchw command line interface.
package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/bchwalletorg/libbchwallet-go/config"
)

const rootCmdName = "bchw"

// appConfig is resolved once in the root PersistentPreRunE and shared by
// every subcommand.
var appConfig config.Config

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           rootCmdName,
		Short:         "bchw is a Bitcoin Cash command line wallet",
		Long:          "bchw builds, signs and broadcasts BCH transactions through a full node's JSON-RPC interface.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Root().PersistentFlags().GetString("datadir")
			if dataDir == "" {
				dataDir = config.DefaultDataDir()
			}

			// A missing config file just means defaults.
			cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
			if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
				return err
			}
			cfg.DataDir = dataDir

			applyFlagOverrides(cmd, &cfg)

			if err := config.ValidateConfig(cfg); err != nil {
				return err
			}
			if err := setupLogging(cfg); err != nil {
				return err
			}

			appConfig = cfg
			return nil
		},
	}

	cmd.PersistentFlags().String("datadir", "", "wallet data directory (default ~/.bchw)")
	cmd.PersistentFlags().String("network", "", "network: mainnet, testnet, regtest")
	cmd.PersistentFlags().String("rpc-url", "", "node JSON-RPC endpoint")
	cmd.PersistentFlags().String("rpc-user", "", "node JSON-RPC username")
	cmd.PersistentFlags().String("rpc-pass", "", "node JSON-RPC password")
	cmd.PersistentFlags().Uint64("feerate", 0, "fee rate in satoshis per kilobyte")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("wif", "", "use this WIF key instead of the stored key file")

	cmd.AddCommand(genkeyCommand())
	cmd.AddCommand(addressCommand())
	cmd.AddCommand(statusCommand())
	cmd.AddCommand(sendCommand())
	cmd.AddCommand(senddataCommand())
	cmd.AddCommand(historyCommand())
	cmd.AddCommand(detailsCommand())
	cmd.AddCommand(versionCommand())

	return cmd
}

// applyFlagOverrides copies set flags over the file-derived config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Root().PersistentFlags()
	if v, _ := flags.GetString("network"); v != "" {
		cfg.Network = v
	}
	if v, _ := flags.GetString("rpc-url"); v != "" {
		cfg.RPCURL = v
	}
	if v, _ := flags.GetString("rpc-user"); v != "" {
		cfg.RPCUser = v
	}
	if v, _ := flags.GetString("rpc-pass"); v != "" {
		cfg.RPCPass = v
	}
	if v, _ := flags.GetUint64("feerate"); v != 0 {
		cfg.FeeRate = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
}

// setupLogging configures the process-wide log level and optional log file.
func setupLogging(cfg config.Config) error {
	level, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %q", config.ErrInvalidLogLevel, cfg.LogLevel)
	}
	logging.SetAllLoggers(level)

	if cfg.LogFile != "" {
		logging.SetupLogging(logging.Config{
			Level:  level,
			Stderr: false,
			File:   cfg.LogFile,
		})
	}
	return nil
}

// keyFilePath returns the encrypted key file location inside the data dir.
func keyFilePath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "key.enc")
}

// ledgerPath returns the spend ledger location inside the data dir.
func ledgerPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "ledger.db")
}

func Execute() {
	cobra.CheckErr(NewRootCommand().Execute())
}
