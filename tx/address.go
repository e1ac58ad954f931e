package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bchwalletorg/libbchwallet-go/cashaddr"
)

// LockingScriptForAddress builds the P2PKH locking script for a destination
// address. Both CashAddr ("bitcoincash:qp...", with or without prefix) and
// legacy base58 forms are accepted; the checksums disambiguate the two.
func LockingScriptForAddress(address string) (*script.Script, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	if _, addrType, hash, err := cashaddr.Decode(address); err == nil {
		if addrType != cashaddr.P2PKH {
			return nil, fmt.Errorf("%w: only P2PKH destinations are supported", ErrInvalidAddress)
		}
		return lockFromHash(hash)
	}

	// Fall back to legacy base58check.
	addr, err := script.NewAddressFromString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return lock, nil
}

// ValidateAddress reports whether the address parses as CashAddr or legacy
// base58, returning ErrInvalidAddress otherwise.
func ValidateAddress(address string) error {
	_, err := LockingScriptForAddress(address)
	return err
}

// ValidateAddressForNetwork validates the address and additionally rejects
// CashAddr destinations encoded for a different network than the one named
// by cashAddrPrefix. Funds locked to an address decoded under the wrong
// prefix would still be spendable by its holder, but a wallet must never
// quietly pay a testnet destination from mainnet coins or vice versa.
func ValidateAddressForNetwork(address, cashAddrPrefix string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}
	if prefix, _, _, err := cashaddr.Decode(address); err == nil && prefix != cashAddrPrefix {
		return fmt.Errorf("%w: %q belongs to the %q network, wallet uses %q",
			ErrInvalidAddress, address, prefix, cashAddrPrefix)
	}
	return nil
}

func lockFromHash(hash []byte) (*script.Script, error) {
	addr, err := script.NewAddressFromPublicKeyHash(hash, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from hash: %w", ErrScriptBuild, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return lock, nil
}
