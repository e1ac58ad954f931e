package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
)

// Compile-time interface check.
var _ ChainService = (*RPCClient)(nil)

// bchToSat converts a BCH float64 amount (as returned by the RPC node) to
// satoshis. math.Round avoids floating-point truncation issues.
func bchToSat(bch float64) uint64 {
	return uint64(math.Round(bch * 1e8))
}

// listUnspentResult maps the JSON fields returned by the listunspent call.
type listUnspentResult struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Amount        float64 `json:"amount"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Address       string  `json:"address"`
	Confirmations int64   `json:"confirmations"`
}

// ListUnspent returns all unspent transaction outputs for the given address.
// It calls `listunspent 0 9999999 ["address"]` and converts BCH amounts to
// satoshis. An address with no outputs yields an empty slice, not an error.
func (c *RPCClient) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	params := []interface{}{0, 9999999, []string{address}}
	var results []listUnspentResult
	if err := c.Call(ctx, "listunspent", params, &results); err != nil {
		return nil, err
	}

	utxos := make([]*UTXO, len(results))
	for i, r := range results {
		utxos[i] = &UTXO{
			TxID:          r.TxID,
			Vout:          r.Vout,
			Amount:        bchToSat(r.Amount),
			ScriptPubKey:  r.ScriptPubKey,
			Address:       r.Address,
			Confirmations: r.Confirmations,
		}
	}
	return utxos, nil
}

// gettxoutResult maps the JSON fields returned by the gettxout call. The
// pointer type allows detecting JSON null (spent output) vs present result.
type gettxoutResult struct {
	Value         float64 `json:"value"`
	Confirmations int64   `json:"confirmations"`
	ScriptPubKey  struct {
		Hex       string   `json:"hex"`
		Addresses []string `json:"addresses"`
	} `json:"scriptPubKey"`
}

// GetUTXO returns a specific unspent transaction output by txid and output
// index. It calls `gettxout "txid" vout`. When the output is spent, gettxout
// returns JSON null, which is reported as ErrTxNotFound.
func (c *RPCClient) GetUTXO(ctx context.Context, txid string, vout uint32) (*UTXO, error) {
	params := []interface{}{txid, vout}
	var result *gettxoutResult
	if err := c.Call(ctx, "gettxout", params, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: output %s:%d is spent", ErrTxNotFound, txid, vout)
	}

	utxo := &UTXO{
		TxID:          txid,
		Vout:          vout,
		Amount:        bchToSat(result.Value),
		ScriptPubKey:  result.ScriptPubKey.Hex,
		Confirmations: result.Confirmations,
	}
	if len(result.ScriptPubKey.Addresses) > 0 {
		utxo.Address = result.ScriptPubKey.Addresses[0]
	}
	return utxo, nil
}

// BroadcastTx submits a raw transaction hex to the network and returns the
// txid. It calls `sendrawtransaction "hex"`. RPC errors are wrapped with
// ErrBroadcastRejected; connection failures stay ErrConnectionFailed so
// callers can distinguish retryable from fatal.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	params := []interface{}{rawTxHex}
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", params, &txid); err != nil {
		if isTransient(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrBroadcastRejected, err)
	}
	return txid, nil
}

// GetRawTx returns the raw transaction bytes for the given txid. It calls
// `getrawtransaction "txid" false` and decodes the hex.
func (c *RPCClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	params := []interface{}{txid, false}
	var rawHex string
	if err := c.Call(ctx, "getrawtransaction", params, &rawHex); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tx hex: %v", ErrInvalidResponse, err)
	}
	return data, nil
}

// verboseTxResult maps the JSON fields from getrawtransaction verbose=true.
type verboseTxResult struct {
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
}

// GetTxStatus returns the confirmation status of a transaction. It calls
// `getrawtransaction "txid" true` (verbose mode).
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	params := []interface{}{txid, true}
	var result verboseTxResult
	if err := c.Call(ctx, "getrawtransaction", params, &result); err != nil {
		return nil, err
	}
	return &TxStatus{
		Confirmed:   result.Confirmations > 0,
		BlockHash:   result.BlockHash,
		BlockHeight: result.BlockHeight,
	}, nil
}

// GetBestBlockHeight returns the height of the current chain tip via
// `getblockcount`.
func (c *RPCClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, "getblockcount", nil, &raw); err != nil {
		return 0, err
	}
	// getblockcount returns an integer, but JSON numbers are float64.
	var height float64
	if err := json.Unmarshal(raw, &height); err != nil {
		return 0, fmt.Errorf("%w: invalid block height: %v", ErrInvalidResponse, err)
	}
	return uint64(height), nil
}

// ImportAddress imports a watch-only address so the node tracks its outputs.
// It calls `importaddress "address" "" true` (with rescan); repeated imports
// are a no-op on the node side.
func (c *RPCClient) ImportAddress(ctx context.Context, address string) error {
	params := []interface{}{address, "", true}
	return c.Call(ctx, "importaddress", params, nil)
}
