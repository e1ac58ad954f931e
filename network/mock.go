package network

import "context"

// MockChainService is a test double for ChainService. All function fields
// must be set before the corresponding method is called.
type MockChainService struct {
	ListUnspentFn        func(ctx context.Context, address string) ([]*UTXO, error)
	GetUTXOFn            func(ctx context.Context, txid string, vout uint32) (*UTXO, error)
	BroadcastTxFn        func(ctx context.Context, rawTxHex string) (string, error)
	GetRawTxFn           func(ctx context.Context, txid string) ([]byte, error)
	GetTxStatusFn        func(ctx context.Context, txid string) (*TxStatus, error)
	GetBestBlockHeightFn func(ctx context.Context) (uint64, error)
	ImportAddressFn      func(ctx context.Context, address string) error
}

var _ ChainService = (*MockChainService)(nil)

func (m *MockChainService) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	return m.ListUnspentFn(ctx, address)
}
func (m *MockChainService) GetUTXO(ctx context.Context, txid string, vout uint32) (*UTXO, error) {
	return m.GetUTXOFn(ctx, txid, vout)
}
func (m *MockChainService) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}
func (m *MockChainService) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	return m.GetRawTxFn(ctx, txid)
}
func (m *MockChainService) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
func (m *MockChainService) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	return m.GetBestBlockHeightFn(ctx)
}
func (m *MockChainService) ImportAddress(ctx context.Context, address string) error {
	return m.ImportAddressFn(ctx, address)
}
