package wallet

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	script "github.com/bsv-blockchain/go-sdk/script"

	"github.com/bchwalletorg/libbchwallet-go/cashaddr"
)

// Key is a single spendable wallet key: an EC private key bound to a
// network, with both CashAddr and legacy base58 address forms.
type Key struct {
	priv    *ec.PrivateKey
	network *NetworkConfig
}

// NewKey generates a fresh random key for the given network.
func NewKey(network *NetworkConfig) (*Key, error) {
	if network == nil {
		network = &MainNet
	}
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate private key: %w", err)
	}
	return &Key{priv: priv, network: network}, nil
}

// FromWIF imports a key from its WIF serialization.
func FromWIF(wif string, network *NetworkConfig) (*Key, error) {
	if network == nil {
		network = &MainNet
	}
	priv, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}
	return &Key{priv: priv, network: network}, nil
}

// fromPrivateKey wraps an already-derived private key.
func fromPrivateKey(priv *ec.PrivateKey, network *NetworkConfig) *Key {
	if network == nil {
		network = &MainNet
	}
	return &Key{priv: priv, network: network}
}

// PrivateKey returns the underlying EC private key for signing.
func (k *Key) PrivateKey() *ec.PrivateKey { return k.priv }

// Network returns the network this key is bound to.
func (k *Key) Network() *NetworkConfig { return k.network }

// WIF returns the key's WIF serialization.
func (k *Key) WIF() string { return k.priv.Wif() }

// PublicKeyHex returns the compressed public key as hex.
func (k *Key) PublicKeyHex() string {
	return hex.EncodeToString(k.priv.PubKey().Compressed())
}

// PubKeyHash returns HASH160 of the compressed public key.
func (k *Key) PubKeyHash() ([]byte, error) {
	addr, err := script.NewAddressFromPublicKey(k.priv.PubKey(), k.network.IsMainNet())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivationFailed, err)
	}
	return []byte(addr.PublicKeyHash), nil
}

// CashAddr returns the key's CashAddr form with the network prefix, e.g.
// "bitcoincash:qr6m...".
func (k *Key) CashAddr() (string, error) {
	hash, err := k.PubKeyHash()
	if err != nil {
		return "", err
	}
	return cashaddr.Encode(k.network.CashAddrPrefix, cashaddr.P2PKH, hash)
}

// LegacyAddress returns the key's base58check form, e.g. "1BpEi6...".
func (k *Key) LegacyAddress() (string, error) {
	addr, err := script.NewAddressFromPublicKey(k.priv.PubKey(), k.network.IsMainNet())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDerivationFailed, err)
	}
	return addr.AddressString, nil
}
