package types

import (
	"errors"
	"fmt"
)

// ErrLedgerNotFound is returned when an operation references a ledger id
// absent from the store.
var ErrLedgerNotFound = errors.New("ledger not found")

// ErrLedgerConflict is returned when an advance loses the optimistic
// concurrency check (the entry changed between read and write).
var ErrLedgerConflict = errors.New("ledger modified concurrently")

// InvalidTransitionError rejects a status advance that is not a legal
// successor of the current status.
type InvalidTransitionError struct {
	From LedgerStatus
	To   LedgerStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s → %s", e.From, e.To)
}
