package spend

import "errors"

var (
	// ErrNilParam indicates a required dependency or argument was nil.
	ErrNilParam = errors.New("spend: nil parameter")

	// ErrNoSpendableOutputs indicates the wallet address has no confirmed
	// unspent outputs available for selection.
	ErrNoSpendableOutputs = errors.New("spend: no spendable outputs")

	// ErrAlreadySubmitted indicates Submit was called twice on one draft.
	ErrAlreadySubmitted = errors.New("spend: draft already submitted")

	// ErrAbandoned indicates the draft was abandoned and its outputs released.
	ErrAbandoned = errors.New("spend: draft abandoned")
)
