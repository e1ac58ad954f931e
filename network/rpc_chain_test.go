package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcStub returns a test server that dispatches incoming RPC calls to the
// given handlers by method name.
func rpcStub(t *testing.T, handlers map[string]func(params []interface{}) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		handler, ok := handlers[req.Method]
		require.True(t, ok, "unexpected RPC method %q", req.Method)

		result, rpcErr := handler(req.Params)
		resp := rpcResponse{ID: req.ID, Error: rpcErr}
		if rpcErr == nil {
			raw, err := json.Marshal(result)
			require.NoError(t, err)
			resp.Result = raw
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestListUnspentConvertsToSatoshis(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"listunspent": func(params []interface{}) (interface{}, *rpcError) {
			require.Len(t, params, 3)
			assert.Equal(t, float64(0), params[0])
			assert.Equal(t, float64(9999999), params[1])
			return []listUnspentResult{
				{
					TxID:          "aa11",
					Vout:          1,
					Amount:        0.001,
					ScriptPubKey:  "76a914",
					Address:       "bchtest:qq0",
					Confirmations: 6,
				},
				{TxID: "bb22", Vout: 0, Amount: 1.23456789},
			}, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	utxos, err := client.ListUnspent(context.Background(), "bchtest:qq0")
	require.NoError(t, err)
	require.Len(t, utxos, 2)
	assert.Equal(t, uint64(100_000), utxos[0].Amount)
	assert.Equal(t, uint64(123_456_789), utxos[1].Amount)
	assert.Equal(t, "aa11", utxos[0].TxID)
	assert.Equal(t, uint32(1), utxos[0].Vout)
	assert.Equal(t, int64(6), utxos[0].Confirmations)
}

func TestListUnspentEmpty(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"listunspent": func([]interface{}) (interface{}, *rpcError) {
			return []listUnspentResult{}, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	utxos, err := client.ListUnspent(context.Background(), "bchtest:qq0")
	require.NoError(t, err)
	assert.Empty(t, utxos)
}

func TestGetUTXOSpentOutput(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"gettxout": func([]interface{}) (interface{}, *rpcError) {
			return nil, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.GetUTXO(context.Background(), "aa11", 0)
	assert.ErrorIs(t, err, ErrTxNotFound)
}

func TestGetUTXO(t *testing.T) {
	result := gettxoutResult{Value: 0.00005, Confirmations: 3}
	result.ScriptPubKey.Hex = "76a914ff88"
	result.ScriptPubKey.Addresses = []string{"bchtest:qq0"}

	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"gettxout": func(params []interface{}) (interface{}, *rpcError) {
			require.Len(t, params, 2)
			assert.Equal(t, "aa11", params[0])
			return result, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	utxo, err := client.GetUTXO(context.Background(), "aa11", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), utxo.Amount)
	assert.Equal(t, uint32(2), utxo.Vout)
	assert.Equal(t, "76a914ff88", utxo.ScriptPubKey)
	assert.Equal(t, "bchtest:qq0", utxo.Address)
}

func TestBroadcastTx(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"sendrawtransaction": func(params []interface{}) (interface{}, *rpcError) {
			require.Len(t, params, 1)
			assert.Equal(t, "0100beef", params[0])
			return "aa11bb22", nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	txid, err := client.BroadcastTx(context.Background(), "0100beef")
	require.NoError(t, err)
	assert.Equal(t, "aa11bb22", txid)
}

func TestBroadcastTxRejected(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"sendrawtransaction": func([]interface{}) (interface{}, *rpcError) {
			return nil, &rpcError{Code: -26, Message: "txn-mempool-conflict"}
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.BroadcastTx(context.Background(), "0100beef")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBroadcastRejected)
	assert.Contains(t, err.Error(), "txn-mempool-conflict")
}

func TestBroadcastTxConnectionFailure(t *testing.T) {
	client := NewRPCClient(RPCConfig{URL: "http://localhost:1"})
	_, err := client.BroadcastTx(context.Background(), "0100beef")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.NotErrorIs(t, err, ErrBroadcastRejected)
}

func TestGetRawTx(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getrawtransaction": func(params []interface{}) (interface{}, *rpcError) {
			require.Len(t, params, 2)
			assert.Equal(t, false, params[1])
			return "deadbeef", nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	raw, err := client.GetRawTx(context.Background(), "aa11")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, raw)
}

func TestGetTxStatus(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getrawtransaction": func(params []interface{}) (interface{}, *rpcError) {
			require.Len(t, params, 2)
			assert.Equal(t, true, params[1])
			return verboseTxResult{Confirmations: 2, BlockHash: "000abc", BlockHeight: 800_000}, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	status, err := client.GetTxStatus(context.Background(), "aa11")
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, "000abc", status.BlockHash)
	assert.Equal(t, uint64(800_000), status.BlockHeight)
}

func TestGetTxStatusUnconfirmed(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getrawtransaction": func([]interface{}) (interface{}, *rpcError) {
			return verboseTxResult{}, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	status, err := client.GetTxStatus(context.Background(), "aa11")
	require.NoError(t, err)
	assert.False(t, status.Confirmed)
}

func TestGetBestBlockHeight(t *testing.T) {
	server := rpcStub(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getblockcount": func([]interface{}) (interface{}, *rpcError) {
			return 812345, nil
		},
	})
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	height, err := client.GetBestBlockHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(812345), height)
}

func TestBchToSat(t *testing.T) {
	tests := []struct {
		bch  float64
		want uint64
	}{
		{0, 0},
		{0.00000001, 1},
		{0.00000546, 546},
		{0.001, 100_000},
		{1, 100_000_000},
		{21.0, 2_100_000_000},
		{0.1, 10_000_000},
		{0.29999999, 29_999_999},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v", tc.bch), func(t *testing.T) {
			assert.Equal(t, tc.want, bchToSat(tc.bch))
		})
	}
}
