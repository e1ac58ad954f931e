package wallet

import (
	"fmt"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bchwalletorg/libbchwallet-go/cashaddr"
)

// NetworkConfig defines network parameters for a BCH network.
type NetworkConfig struct {
	Name           string `json:"name"`
	CashAddrPrefix string `json:"cashaddr_prefix"`
	AddressVersion byte   `json:"address_version"`
	P2SHVersion    byte   `json:"p2sh_version"`
	DefaultPort    uint16 `json:"default_port"`
	RPCPort        uint16 `json:"rpc_port"`
	GenesisHash    string `json:"genesis_hash"`
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{
		Name:           "mainnet",
		CashAddrPrefix: cashaddr.MainnetPrefix,
		AddressVersion: 0x00,
		P2SHVersion:    0x05,
		DefaultPort:    8333,
		RPCPort:        8332,
		GenesisHash:    "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f",
	}

	TestNet = NetworkConfig{
		Name:           "testnet",
		CashAddrPrefix: cashaddr.TestnetPrefix,
		AddressVersion: 0x6f,
		P2SHVersion:    0xc4,
		DefaultPort:    18333,
		RPCPort:        18332,
		GenesisHash:    "000000000933ea01ad0ee984209779baaec3ced90fa3f408719526f8d77f4943",
	}

	RegTest = NetworkConfig{
		Name:           "regtest",
		CashAddrPrefix: cashaddr.RegtestPrefix,
		AddressVersion: 0x6f,
		P2SHVersion:    0xc4,
		DefaultPort:    18444,
		RPCPort:        18443,
		GenesisHash:    "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206",
	}
)

// predefined maps network names to their configs.
var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// chainParams maps a NetworkConfig to go-sdk chaincfg params for BIP32
// serialization. BCH shares the legacy version bytes with BSV/BTC.
func (n *NetworkConfig) chainParams() *chaincfg.Params {
	if n.Name == "mainnet" {
		return &chaincfg.MainNet
	}
	return &chaincfg.TestNet
}

// IsMainNet reports whether this configuration is the production network.
func (n *NetworkConfig) IsMainNet() bool { return n.Name == "mainnet" }
