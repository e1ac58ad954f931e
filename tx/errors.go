package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates the available outputs cannot cover the
	// requested amount plus the fee for the actual candidate input count.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrNoIntents indicates a build was attempted with no outputs to create.
	ErrNoIntents = errors.New("tx: no intents")

	// ErrInvalidIntent indicates an intent is malformed (both payment and
	// data forms set, or neither).
	ErrInvalidIntent = errors.New("tx: invalid intent")

	// ErrInvalidAmount indicates a payment amount is zero.
	ErrInvalidAmount = errors.New("tx: amount must be positive")

	// ErrInvalidPayload indicates a data payload is empty or exceeds the
	// relay limit.
	ErrInvalidPayload = errors.New("tx: invalid data payload")

	// ErrMultipleDataIntents indicates more than one data-carrier intent in a
	// single build. Policy: at most one data output per transaction.
	ErrMultipleDataIntents = errors.New("tx: at most one data-carrier output per transaction")

	// ErrInvalidAddress indicates a destination or change address is malformed.
	ErrInvalidAddress = errors.New("tx: invalid address")

	// ErrValueMismatch indicates input value does not exactly equal output
	// value plus fee.
	ErrValueMismatch = errors.New("tx: inputs do not equal outputs plus fee")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrInvalidDataScript indicates an OP_RETURN script is malformed.
	ErrInvalidDataScript = errors.New("tx: invalid OP_RETURN format")
)
