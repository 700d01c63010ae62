package types

// LedgerStatus is the lifecycle state of a campaign ledger.
type LedgerStatus string

const (
	StatusIntake   LedgerStatus = "intake"
	StatusActive   LedgerStatus = "active"
	StatusShipped  LedgerStatus = "shipped"
	StatusArchived LedgerStatus = "archived"
)

// ValidTransitions maps each status to the statuses directly reachable from
// it. The lifecycle is a linear chain; archived is terminal.
var ValidTransitions = map[LedgerStatus][]LedgerStatus{
	StatusIntake:   {StatusActive},
	StatusActive:   {StatusShipped},
	StatusShipped:  {StatusArchived},
	StatusArchived: {},
}

// NextStatuses returns the statuses reachable from the given status. Unknown
// statuses have no successors.
func NextStatuses(from LedgerStatus) []LedgerStatus {
	return ValidTransitions[from]
}

// CanTransition reports whether moving from -> to is a legal single step.
func CanTransition(from, to LedgerStatus) bool {
	for _, next := range ValidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
