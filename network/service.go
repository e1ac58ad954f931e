// Package network talks to the outside world on behalf of the wallet: a
// JSON-RPC client for BCH full nodes, a price lookup client, and the bounded
// retry policy for transient failures. Everything the rest of the wallet
// needs from the chain goes through the ChainService interface.
package network

import "context"

// ChainService is the wallet's view of the blockchain. Implementations must
// return an empty slice (not an error) from ListUnspent when an address
// simply has no unspent outputs; errors mean the source itself failed.
type ChainService interface {
	// ListUnspent returns all unspent transaction outputs for the given address.
	ListUnspent(ctx context.Context, address string) ([]*UTXO, error)

	// GetUTXO returns a specific unspent transaction output by txid and output
	// index, or ErrTxNotFound when the output does not exist or is spent.
	GetUTXO(ctx context.Context, txid string, vout uint32) (*UTXO, error)

	// BroadcastTx submits a raw transaction hex to the network and returns the
	// txid. A node-side refusal surfaces as ErrBroadcastRejected; such a
	// transaction must not be resubmitted unmodified.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)

	// GetRawTx returns the raw transaction bytes for the given txid.
	GetRawTx(ctx context.Context, txid string) ([]byte, error)

	// GetTxStatus returns the confirmation status of a transaction.
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)

	// GetBestBlockHeight returns the height of the current chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)

	// ImportAddress imports a watch-only address into the node's wallet so
	// that ListUnspent can find its UTXOs. No-op if already imported; safe to
	// call multiple times.
	ImportAddress(ctx context.Context, address string) error
}

// UTXO represents an unspent transaction output as reported by the chain
// source. Amounts are satoshis.
type UTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"`
	ScriptPubKey  string `json:"script_pubkey"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}

// TxStatus represents the confirmation status of a transaction.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHash   string `json:"block_hash"`
	BlockHeight uint64 `json:"block_height"`
}
