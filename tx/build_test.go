package tx

import (
	"bytes"
	"math"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bchwalletorg/libbchwallet-go/cashaddr"
)

func generateTestKeyPair(t *testing.T) (*ec.PrivateKey, *ec.PublicKey) {
	t.Helper()
	privKey, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return privKey, privKey.PubKey()
}

// testAddresses returns a legacy and a CashAddr form for a fresh key.
func testAddresses(t *testing.T) (legacy, cash string) {
	t.Helper()
	_, pubKey := generateTestKeyPair(t)
	addr, err := script.NewAddressFromPublicKey(pubKey, true)
	require.NoError(t, err)

	cash, err = cashaddr.Encode(cashaddr.MainnetPrefix, cashaddr.P2PKH, []byte(addr.PublicKeyHash))
	require.NoError(t, err)
	return addr.AddressString, cash
}

func testSpendableUTXO(t *testing.T, fill byte, amount uint64) *UTXO {
	t.Helper()
	privKey, pubKey := generateTestKeyPair(t)
	spk, err := P2PKHScript(pubKey)
	require.NoError(t, err)
	return &UTXO{
		TxID:         bytes.Repeat([]byte{fill}, 32),
		Vout:         0,
		Amount:       amount,
		ScriptPubKey: spk,
		PrivateKey:   privKey,
	}
}

func TestBuildPaymentWithChange(t *testing.T) {
	dest, _ := testAddresses(t)
	change, _ := testAddresses(t)

	sel := &Selection{
		UTXOs:  []*UTXO{testSpendableUTXO(t, 0x01, 50_000)},
		Total:  50_000,
		Fee:    226,
		Change: 39_774,
	}

	utx, err := Build(sel, []Intent{PayTo(dest, 10_000)}, change)
	require.NoError(t, err)

	sdkTx, err := transaction.NewTransactionFromBytes(utx.RawTx)
	require.NoError(t, err)
	require.Len(t, sdkTx.Inputs, 1)
	require.Len(t, sdkTx.Outputs, 2)

	assert.Equal(t, uint64(10_000), sdkTx.Outputs[0].Satoshis)
	assert.Equal(t, uint64(39_774), sdkTx.Outputs[1].Satoshis)
	assert.Equal(t, 1, utx.ChangeVout, "change must be the last output")

	// Exact value conservation.
	var outSum uint64
	for _, o := range sdkTx.Outputs {
		outSum += o.Satoshis
	}
	assert.Equal(t, utx.Total, outSum+utx.Fee)
}

func TestBuildValueConservation(t *testing.T) {
	dest, _ := testAddresses(t)
	change, _ := testAddresses(t)
	sel := NewSelector(NewFeeEstimator(1000))

	set := NewUTXOSet([]*UTXO{
		testSpendableUTXO(t, 0x01, 30_000),
		testSpendableUTXO(t, 0x02, 20_000),
	})

	for _, target := range []uint64{1_000, 25_000, 40_000} {
		got, err := sel.Select(set, target, 1, 0)
		require.NoError(t, err)

		utx, err := Build(got, []Intent{PayTo(dest, target)}, change)
		require.NoError(t, err)

		sdkTx, err := transaction.NewTransactionFromBytes(utx.RawTx)
		require.NoError(t, err)

		var outSum uint64
		for _, o := range sdkTx.Outputs {
			outSum += o.Satoshis
		}
		assert.Equal(t, utx.Total, outSum+utx.Fee, "target=%d", target)
	}
}

func TestBuildCashAddrDestination(t *testing.T) {
	_, dest := testAddresses(t)

	sel := &Selection{
		UTXOs: []*UTXO{testSpendableUTXO(t, 0x01, 10_500)},
		Total: 10_500,
		Fee:   500,
	}

	utx, err := Build(sel, []Intent{PayTo(dest, 10_000)}, "")
	require.NoError(t, err)

	sdkTx, err := transaction.NewTransactionFromBytes(utx.RawTx)
	require.NoError(t, err)
	require.Len(t, sdkTx.Outputs, 1)
	assert.True(t, sdkTx.Outputs[0].LockingScript.IsP2PKH())
	assert.Equal(t, -1, utx.ChangeVout)
}

func TestBuildDataOutput(t *testing.T) {
	payload := []byte("unit test payload")
	change, _ := testAddresses(t)

	sel := &Selection{
		UTXOs:  []*UTXO{testSpendableUTXO(t, 0x01, 10_000)},
		Total:  10_000,
		Fee:    250,
		Change: 9_750,
	}

	utx, err := Build(sel, []Intent{DataCarrier(payload)}, change)
	require.NoError(t, err)

	sdkTx, err := transaction.NewTransactionFromBytes(utx.RawTx)
	require.NoError(t, err)
	require.Len(t, sdkTx.Outputs, 2)

	// Exactly one zero-value output carrying the payload.
	assert.Zero(t, sdkTx.Outputs[0].Satoshis)
	got, err := ParseDataScript(sdkTx.Outputs[0].LockingScript)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBuildRejectsSecondDataIntent(t *testing.T) {
	change, _ := testAddresses(t)
	sel := &Selection{
		UTXOs: []*UTXO{testSpendableUTXO(t, 0x01, 10_000)},
		Total: 10_000,
		Fee:   10_000,
	}

	intents := []Intent{
		DataCarrier([]byte("first")),
		DataCarrier([]byte("second")),
	}
	_, err := Build(sel, intents, change)
	assert.ErrorIs(t, err, ErrMultipleDataIntents)
}

func TestBuildRejectsEmptyIntents(t *testing.T) {
	sel := &Selection{
		UTXOs: []*UTXO{testSpendableUTXO(t, 0x01, 10_000)},
		Total: 10_000,
		Fee:   10_000,
	}
	_, err := Build(sel, nil, "")
	assert.ErrorIs(t, err, ErrNoIntents)
}

func TestBuildRejectsZeroAmount(t *testing.T) {
	dest, _ := testAddresses(t)
	sel := &Selection{
		UTXOs: []*UTXO{testSpendableUTXO(t, 0x01, 10_000)},
		Total: 10_000,
		Fee:   10_000,
	}
	_, err := Build(sel, []Intent{PayTo(dest, 0)}, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBuildRejectsMalformedChangeAddress(t *testing.T) {
	dest, _ := testAddresses(t)
	sel := &Selection{
		UTXOs:  []*UTXO{testSpendableUTXO(t, 0x01, 50_000)},
		Total:  50_000,
		Fee:    226,
		Change: 39_774,
	}
	_, err := Build(sel, []Intent{PayTo(dest, 10_000)}, "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestBuildRejectsUnbalancedSelection(t *testing.T) {
	dest, _ := testAddresses(t)
	sel := &Selection{
		UTXOs:  []*UTXO{testSpendableUTXO(t, 0x01, 50_000)},
		Total:  50_000,
		Fee:    226,
		Change: 1, // does not balance against the 10,000 sat intent
	}
	_, err := Build(sel, []Intent{PayTo(dest, 10_000)}, dest)
	assert.ErrorIs(t, err, ErrValueMismatch)
}

func TestBuildRejectsWrappedSelection(t *testing.T) {
	// These figures satisfy inputs == spends + change + fee only modulo
	// 2^64. The supply bound must reject them before the balance check.
	dest, _ := testAddresses(t)
	sel := &Selection{
		UTXOs:  []*UTXO{testSpendableUTXO(t, 0x01, 100_000)},
		Total:  100_000,
		Fee:    226,
		Change: 99_775, // MaxUint64 + 99_775 + 226 wraps to exactly 100_000
	}
	_, err := Build(sel, []Intent{PayTo(dest, math.MaxUint64)}, dest)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	sel.Change = MaxMoney + 1
	_, err = Build(sel, []Intent{PayTo(dest, 10_000)}, dest)
	assert.ErrorIs(t, err, ErrValueMismatch)
}

func TestBuildNilSelection(t *testing.T) {
	_, err := Build(nil, []Intent{DataCarrier([]byte("x"))}, "")
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestBuildOversizedPayload(t *testing.T) {
	sel := &Selection{
		UTXOs: []*UTXO{testSpendableUTXO(t, 0x01, 10_000)},
		Total: 10_000,
		Fee:   10_000,
	}
	payload := bytes.Repeat([]byte{0xaa}, MaxDataPayload+1)
	_, err := Build(sel, []Intent{DataCarrier(payload)}, "")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
