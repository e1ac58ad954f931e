package tx

const (
	// DustLimit is the minimum P2PKH output value in satoshis. Change below
	// this threshold is folded into the fee instead of creating an output.
	DustLimit = uint64(546)

	// DefaultFeeRate is the default fee rate in sat/KB.
	DefaultFeeRate = uint64(1000)

	// MaxMoney is the total coin supply in satoshis. No valid amount can
	// exceed it, so it doubles as an overflow bound for fee arithmetic.
	MaxMoney = uint64(21_000_000 * 1e8)

	// MaxDataPayload is the maximum OP_RETURN payload accepted by standard
	// relay policy.
	MaxDataPayload = 220

	// Serialized size constants for P2PKH transactions.
	//
	// Base: version(4) + locktime(4) + input count varint(1) + output count varint(1)
	// Per input: prevhash(32) + previndex(4) + scriptlen varint(1) + script(~107) + sequence(4)
	// Per output: value(8) + scriptlen varint(1) + script(25)
	// Data output: value(8) + scriptlen varint(3) + OP_RETURN(1) + pushdata header(2) + payload
	baseTxOverhead   = 10
	bytesPerInput    = 148
	bytesPerOutput   = 34
	dataOutputExtras = 14
)

// FeeEstimator computes the required fee for a transaction shape at a fixed
// sat/KB rate. The rate is explicit configuration threaded in at construction,
// never ambient state.
type FeeEstimator struct {
	rate uint64
}

// NewFeeEstimator creates an estimator at the given sat/KB rate.
// A zero rate falls back to DefaultFeeRate.
func NewFeeEstimator(satPerKB uint64) FeeEstimator {
	if satPerKB == 0 {
		satPerKB = DefaultFeeRate
	}
	return FeeEstimator{rate: satPerKB}
}

// Rate returns the configured fee rate in sat/KB.
func (e FeeEstimator) Rate() uint64 {
	return e.rate
}

// EstimateSize estimates the serialized transaction size in bytes for the
// given shape. numOutputs counts value-bearing P2PKH outputs (payments and
// change); the data-carrier output, when present, is accounted for by
// payloadLen (0 means no data output).
func (e FeeEstimator) EstimateSize(numInputs, numOutputs, payloadLen int) int {
	size := baseTxOverhead + numInputs*bytesPerInput + numOutputs*bytesPerOutput
	if payloadLen > 0 {
		size += dataOutputExtras + payloadLen
	}
	return size
}

// Estimate returns the fee in satoshis for the given transaction shape:
// ceil(size * rate / 1000). The result is deterministic and monotonic in all
// three arguments.
func (e FeeEstimator) Estimate(numInputs, numOutputs, payloadLen int) uint64 {
	size := e.EstimateSize(numInputs, numOutputs, payloadLen)
	return (uint64(size)*e.rate + 999) / 1000
}
