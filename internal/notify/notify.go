package notify

// Kind distinguishes what a notification announces.
type Kind string

const (
	KindLedgerCreated Kind = "ledger_created"
	KindStatusChanged Kind = "status_change"
)

// Notification is the message published after a successful ledger mutation.
// Delivery is best effort; nothing downstream of the bus can affect the
// mutation that produced it.
type Notification struct {
	Kind        Kind   `json:"kind"`
	LedgerID    string `json:"ledger_id"`
	ProjectName string `json:"project_name"`
	Status      string `json:"status"`
	Actor       string `json:"actor"`
}
