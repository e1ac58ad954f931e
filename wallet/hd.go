package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
)

const (
	// BIP44 path constants.
	PurposeBIP44 = 44
	CoinTypeBCH  = 145

	// Chain indices.
	ExternalChain = 0 // Receive addresses
	InternalChain = 1 // Change addresses

	// BIP32 hardened offset.
	Hardened = 0x80000000
)

// HDWallet derives keys along the BIP44 hierarchy
// m/44'/145'/{account}'/{chain}/{index}.
type HDWallet struct {
	masterKey *bip32.ExtendedKey
	network   *NetworkConfig
}

// NewHDWallet creates an HD wallet from a BIP39 seed.
func NewHDWallet(seed []byte, network *NetworkConfig) (*HDWallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}

	masterKey, err := bip32.NewMaster(seed, network.chainParams())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	return &HDWallet{masterKey: masterKey, network: network}, nil
}

// Network returns the wallet's network configuration.
func (w *HDWallet) Network() *NetworkConfig { return w.network }

// deriveAccount derives the account-level key: m/44'/145'/account'
func (w *HDWallet) deriveAccount(account uint32) (*bip32.ExtendedKey, error) {
	purpose, err := w.masterKey.Child(PurposeBIP44 + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: purpose derivation: %w", ErrDerivationFailed, err)
	}

	coinType, err := purpose.Child(CoinTypeBCH + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: coin type derivation: %w", ErrDerivationFailed, err)
	}

	accountKey, err := coinType.Child(account + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: account derivation: %w", ErrDerivationFailed, err)
	}

	return accountKey, nil
}

// DeriveKey derives the key at m/44'/145'/account'/chain/index.
//
//	chain: ExternalChain (0) for receive, InternalChain (1) for change
func (w *HDWallet) DeriveKey(account, chain, index uint32) (*Key, error) {
	if account >= Hardened {
		return nil, fmt.Errorf("%w: account %d exceeds BIP32 hardened boundary", ErrDerivationFailed, account)
	}

	accountKey, err := w.deriveAccount(account)
	if err != nil {
		return nil, err
	}

	chainKey, err := accountKey.Child(chain)
	if err != nil {
		return nil, fmt.Errorf("%w: chain derivation: %w", ErrDerivationFailed, err)
	}

	childKey, err := chainKey.Child(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index derivation: %w", ErrDerivationFailed, err)
	}

	privKey, err := childKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract EC private key: %w", ErrDerivationFailed, err)
	}

	return fromPrivateKey(privKey, w.network), nil
}

// DeriveReceiveKey derives the external-chain key at the given index on
// account 0: m/44'/145'/0'/0/index.
func (w *HDWallet) DeriveReceiveKey(index uint32) (*Key, error) {
	return w.DeriveKey(0, ExternalChain, index)
}

// DeriveChangeKey derives the internal-chain key at the given index on
// account 0: m/44'/145'/0'/1/index.
func (w *HDWallet) DeriveChangeKey(index uint32) (*Key, error) {
	return w.DeriveKey(0, InternalChain, index)
}

// Path returns the human-readable derivation path for the given coordinates.
func Path(account, chain, index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/%d/%d", CoinTypeBCH, account, chain, index)
}
