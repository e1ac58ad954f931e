package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// UnsignedTx is a fully assembled, unsigned transaction together with the
// inputs it spends and its exact value split.
//
// Invariant: Total == sum of payment amounts + Change + Fee, with no rounding
// slack in either direction.
type UnsignedTx struct {
	RawTx  []byte  // serialized unsigned transaction bytes
	Inputs []*UTXO // spent outputs, matched to tx inputs by position
	Total  uint64  // sum of input amounts
	Fee    uint64  // satoshis left to miners
	Change uint64  // change returned to the sender, 0 if none
	// ChangeVout is the change output index, or -1 when no change output
	// exists. When present, change is always the last output.
	ChangeVout int
}

// Build assembles an unsigned transaction from a coin selection and the
// caller's intents.
//
// Output ordering is fixed and affects the serialized bytes and therefore the
// txid: payment and data outputs appear first in caller-supplied order, the
// change output (if any) last.
//
// Validation happens before any serialization: intents must be non-empty and
// individually well-formed, at most one data-carrier intent is allowed, and
// the change address must parse whenever the selection produced change. The
// selection's value split must balance exactly against the intents.
func Build(sel *Selection, intents []Intent, changeAddress string) (*UnsignedTx, error) {
	if sel == nil {
		return nil, fmt.Errorf("%w: selection", ErrNilParam)
	}
	if len(sel.UTXOs) == 0 {
		return nil, fmt.Errorf("%w: selection has no inputs", ErrNilParam)
	}
	if len(intents) == 0 {
		return nil, ErrNoIntents
	}

	dataIntents := 0
	var spendTotal uint64
	for i, in := range intents {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("intent[%d]: %w", i, err)
		}
		if in.IsData() {
			dataIntents++
			continue
		}
		spendTotal += in.Amount
		if spendTotal > MaxMoney {
			return nil, fmt.Errorf("%w: spends exceed the %d sat coin supply", ErrValueMismatch, MaxMoney)
		}
	}
	if dataIntents > 1 {
		return nil, ErrMultipleDataIntents
	}

	// Sanity-bound every side of the ledger so the conservation sum below
	// cannot wrap around uint64.
	if sel.Total > MaxMoney || sel.Change > MaxMoney || sel.Fee > MaxMoney {
		return nil, fmt.Errorf("%w: value exceeds the %d sat coin supply", ErrValueMismatch, MaxMoney)
	}

	// Exact value conservation: inputs == spends + change + fee.
	if sel.Total != spendTotal+sel.Change+sel.Fee {
		return nil, fmt.Errorf("%w: inputs %d sat != spends %d + change %d + fee %d",
			ErrValueMismatch, sel.Total, spendTotal, sel.Change, sel.Fee)
	}

	sdkTx := transaction.NewTransaction()

	for _, u := range sel.UTXOs {
		hash, err := chainhash.NewHash(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: input txid: %w", ErrScriptBuild, err)
		}
		sdkTx.AddInput(&transaction.TransactionInput{
			SourceTXID:       hash,
			SourceTxOutIndex: u.Vout,
			SequenceNumber:   transaction.DefaultSequenceNumber,
		})
	}

	for i, in := range intents {
		if in.IsData() {
			dataScript, err := BuildDataScript(in.Data)
			if err != nil {
				return nil, fmt.Errorf("intent[%d]: %w", i, err)
			}
			sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
				Satoshis:      0,
				LockingScript: dataScript,
			})
			continue
		}
		lock, err := LockingScriptForAddress(in.Address)
		if err != nil {
			return nil, fmt.Errorf("intent[%d]: %w", i, err)
		}
		sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
			Satoshis:      in.Amount,
			LockingScript: lock,
		})
	}

	changeVout := -1
	if sel.Change > 0 {
		changeLock, err := LockingScriptForAddress(changeAddress)
		if err != nil {
			return nil, fmt.Errorf("change address: %w", err)
		}
		sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
			Satoshis:      sel.Change,
			LockingScript: changeLock,
		})
		changeVout = len(sdkTx.Outputs) - 1
	}

	inputs := make([]*UTXO, len(sel.UTXOs))
	copy(inputs, sel.UTXOs)

	return &UnsignedTx{
		RawTx:      sdkTx.Bytes(),
		Inputs:     inputs,
		Total:      sel.Total,
		Fee:        sel.Fee,
		Change:     sel.Change,
		ChangeVout: changeVout,
	}, nil
}
