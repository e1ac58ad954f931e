package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the remote
	// endpoint. Transient; callers may retry with bounded backoff.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates authentication (e.g., RPC credentials) was rejected.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction or output does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the node refused the broadcast
	// transaction. Not transient: the transaction must be rebuilt, never
	// resubmitted unmodified.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the remote returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrPriceUnavailable indicates the price source could not produce a
	// quote. Callers degrade gracefully (display "unknown") rather than abort.
	ErrPriceUnavailable = errors.New("network: price unavailable")
)
