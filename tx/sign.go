package tx

import (
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// SignedTx is a fully signed transaction ready for broadcast: every input
// carries exactly one signature.
type SignedTx struct {
	RawTx []byte // serialized signed transaction bytes
	TxID  []byte // transaction hash, 32 bytes internal order
	Hex   string // hex encoding of RawTx, the broadcast wire form
}

// Sign signs every input of an unsigned transaction.
//
// Signing is pure: it parses the raw bytes, attaches each input's source
// output and a P2PKH unlocker built from the corresponding UTXO's private
// key (matched by position), and produces signatures with SIGHASH_ALL|FORKID.
// The input UnsignedTx is not modified.
func Sign(utx *UnsignedTx) (*SignedTx, error) {
	if utx == nil {
		return nil, fmt.Errorf("%w: unsigned tx", ErrNilParam)
	}
	if len(utx.RawTx) == 0 {
		return nil, fmt.Errorf("%w: raw tx is empty", ErrSigningFailed)
	}

	sdkTx, err := transaction.NewTransactionFromBytes(utx.RawTx)
	if err != nil {
		return nil, fmt.Errorf("%w: parse raw tx: %w", ErrSigningFailed, err)
	}

	if len(utx.Inputs) != len(sdkTx.Inputs) {
		return nil, fmt.Errorf("%w: have %d UTXOs but tx has %d inputs",
			ErrSigningFailed, len(utx.Inputs), len(sdkTx.Inputs))
	}

	for i, u := range utx.Inputs {
		if u == nil {
			return nil, fmt.Errorf("%w: input[%d] is nil", ErrNilParam, i)
		}
		if u.PrivateKey == nil {
			return nil, fmt.Errorf("%w: input[%d] has no private key", ErrSigningFailed, i)
		}
		if len(u.ScriptPubKey) == 0 {
			return nil, fmt.Errorf("%w: input[%d] has empty locking script", ErrSigningFailed, i)
		}

		unlocker, err := p2pkh.Unlock(u.PrivateKey, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: unlocker for input %d: %w", ErrSigningFailed, i, err)
		}

		// Source output info is required to compute the sighash.
		sdkTx.Inputs[i].SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      u.Amount,
			LockingScript: script.NewFromBytes(u.ScriptPubKey),
		})
		sdkTx.Inputs[i].UnlockingScriptTemplate = unlocker
	}

	if err := sdkTx.Sign(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	raw := sdkTx.Bytes()
	return &SignedTx{
		RawTx: raw,
		TxID:  sdkTx.TxID().CloneBytes(),
		Hex:   hex.EncodeToString(raw),
	}, nil
}

// P2PKHScript creates the P2PKH locking script for a public key. The result
// is the form stored in UTXO.ScriptPubKey.
func P2PKHScript(pubKey *ec.PublicKey) ([]byte, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("%w: public key", ErrNilParam)
	}
	addr, err := script.NewAddressFromPublicKey(pubKey, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock script: %w", ErrScriptBuild, err)
	}
	return []byte(*lock), nil
}
