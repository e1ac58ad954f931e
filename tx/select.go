package tx

import "fmt"

// Selector chooses unspent outputs to fund a spend. Selection is
// deterministic: outputs accumulate largest-first until the running total
// covers target + fee, with the fee re-estimated after every addition since
// it depends on the input count.
type Selector struct {
	fee  FeeEstimator
	dust uint64
}

// NewSelector creates a Selector using the given estimator and the standard
// dust threshold.
func NewSelector(fee FeeEstimator) Selector {
	return Selector{fee: fee, dust: DustLimit}
}

// Selection is the result of coin selection: the chosen outputs and the exact
// value split. Invariant: Total == target + Fee + Change for the target the
// selection was made for.
type Selection struct {
	UTXOs  []*UTXO // chosen inputs, in selection order
	Total  uint64  // sum of chosen input amounts
	Fee    uint64  // fee to pay (includes any absorbed dust surplus)
	Change uint64  // change back to the sender, 0 if below dust
}

// Select picks outputs covering target satoshis plus the fee for the chosen
// input count. numOutputs counts the payment outputs to be created (excluding
// change) and payloadLen the data payload length, both needed for fee
// estimation.
//
// If the surplus over target + fee exceeds the dust threshold, it becomes
// Change and the fee accounts for the extra change output; otherwise the
// surplus is absorbed into Fee and no change output should be created.
//
// Returns ErrInsufficientFunds when the full set cannot cover target plus the
// fee computed for the actual candidate input count.
func (s Selector) Select(set *UTXOSet, target uint64, numOutputs, payloadLen int) (*Selection, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: utxo set", ErrNilParam)
	}
	if target == 0 {
		return nil, ErrInvalidAmount
	}
	return s.accumulate(set, target, numOutputs, payloadLen)
}

// SelectForFee picks outputs covering only the fee for a transaction with no
// payment outputs (a data-only spend).
func (s Selector) SelectForFee(set *UTXOSet, payloadLen int) (*Selection, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: utxo set", ErrNilParam)
	}
	return s.accumulate(set, 0, 0, payloadLen)
}

// SelectAll implements a MAX send: every output is spent and the sendable
// amount is the set total minus the fee computed for the full input count.
// No change output is ever produced.
//
// Returns the selection and the spendable amount, or ErrInsufficientFunds if
// the set total does not exceed the fee.
func (s Selector) SelectAll(set *UTXOSet, numOutputs, payloadLen int) (*Selection, uint64, error) {
	if set == nil {
		return nil, 0, fmt.Errorf("%w: utxo set", ErrNilParam)
	}

	all := set.SortedByAmountDesc()
	total := set.Total()
	fee := s.fee.Estimate(len(all), numOutputs, payloadLen)
	if total <= fee {
		return nil, 0, fmt.Errorf("%w: balance %d sat does not cover the %d sat fee",
			ErrInsufficientFunds, total, fee)
	}

	return &Selection{UTXOs: all, Total: total, Fee: fee}, total - fee, nil
}

// accumulate runs the largest-first selection loop for target + fee.
func (s Selector) accumulate(set *UTXOSet, target uint64, numOutputs, payloadLen int) (*Selection, error) {
	if target > MaxMoney {
		return nil, fmt.Errorf("%w: %d sat exceeds the %d sat coin supply",
			ErrInvalidAmount, target, MaxMoney)
	}
	// Settle the hopeless case before any target + fee arithmetic so the
	// sums below cannot wrap.
	if total := set.Total(); target > total {
		return nil, fmt.Errorf("%w: need %d sat before fees, have %d sat, short %d sat",
			ErrInsufficientFunds, target, total, target-total)
	}

	sorted := set.SortedByAmountDesc()
	chosen := make([]*UTXO, 0, len(sorted))
	var total uint64

	for _, u := range sorted {
		chosen = append(chosen, u)
		total += u.Amount

		// Minimum viable fee for this input count: no change output yet.
		feeNoChange := s.fee.Estimate(len(chosen), numOutputs, payloadLen)
		if total < target+feeNoChange {
			continue
		}

		// Covered. Decide whether the surplus warrants a change output.
		feeWithChange := s.fee.Estimate(len(chosen), numOutputs+1, payloadLen)
		if total >= target+feeWithChange && total-target-feeWithChange > s.dust {
			return &Selection{
				UTXOs:  chosen,
				Total:  total,
				Fee:    feeWithChange,
				Change: total - target - feeWithChange,
			}, nil
		}

		// Dust-sized surplus: absorb it into the fee, no change output.
		return &Selection{
			UTXOs: chosen,
			Total: total,
			Fee:   total - target,
		}, nil
	}

	// The whole set was not enough. Report the shortfall against the fee for
	// the actual input count, not an estimate for one input.
	feeAll := s.fee.Estimate(len(sorted), numOutputs, payloadLen)
	needed := target + feeAll
	return nil, fmt.Errorf("%w: need %d sat (amount %d + fee %d), have %d sat, short %d sat",
		ErrInsufficientFunds, needed, target, feeAll, total, needed-total)
}
