// Copyright (c) 2026 The bchwallet developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config defines the wallet configuration, its on-disk key=value
// format, and validation.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds every user-settable wallet parameter.
type Config struct {
	DataDir  string // base directory for ledger db, key file, config
	Network  string // mainnet, testnet, regtest
	RPCURL   string // node JSON-RPC endpoint
	RPCUser  string
	RPCPass  string
	FeeRate  uint64 // satoshis per kilobyte
	LogLevel string // debug, info, warn, error
	LogFile  string // empty = stderr
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "mainnet",
		FeeRate:  1000,
		LogLevel: "info",
	}
}

// DefaultDataDir returns ~/.bchw, falling back to a relative .bchw when the
// home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bchw"
	}
	return filepath.Join(home, ".bchw")
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a key=value config file. Missing keys keep their
// defaults; unknown keys are ignored so newer files still load. Lines
// starting with # and blank lines are skipped.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "network":
			cfg.Network = value
		case "rpcurl":
			cfg.RPCURL = value
		case "rpcuser":
			cfg.RPCUser = value
		case "rpcpass":
			cfg.RPCPass = value
		case "feerate":
			rate, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return cfg, fmt.Errorf("%w: line %d: feerate %q", ErrInvalidConfigLine, lineNum, value)
			}
			cfg.FeeRate = rate
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path in key=value format, creating
// parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# bchw wallet configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpass = %s\n", cfg.RPCPass)
	fmt.Fprintf(&b, "feerate = %d\n", cfg.FeeRate)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
