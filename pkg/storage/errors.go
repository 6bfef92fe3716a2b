package storage

import "errors"

// ErrInsufficientFunds is returned when the conditional balance debit fails
// because the balance does not cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict is returned when a remaining-amount decrement loses a race
// with a concurrent spend or expiry sweep. The caller's view of the open
// grants was stale; the operation applied nothing.
var ErrConflict = errors.New("conditional write conflict")
