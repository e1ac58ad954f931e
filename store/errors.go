package store

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("store: nil parameter")

	// ErrAlreadyReserved indicates an output is already held by a pending
	// transaction and cannot be reserved again.
	ErrAlreadyReserved = errors.New("store: output already reserved")

	// ErrNotReserved indicates a confirm or release was attempted on an
	// output that has no active reservation.
	ErrNotReserved = errors.New("store: output not reserved")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store: closed")
)
