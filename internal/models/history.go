package models

// PaymentAction is the kind of settlement transition recorded in history.
type PaymentAction string

const (
	ActionMarkedPaid   PaymentAction = "marked_paid"
	ActionMarkedUnpaid PaymentAction = "marked_unpaid"
)

// PaymentHistoryEntry is an append-only audit record of one settlement
// action on a split. Entries are never updated or deleted, and every
// attempt is recorded even when the split already held the target state.
type PaymentHistoryEntry struct {
	ID      string
	SplitID string
	Action  PaymentAction

	// PerformedBy is the acting user ID; PerformedByName is the resolved
	// display name, populated on reads.
	PerformedBy     string
	PerformedByName string

	// Reason is the optional free-text justification supplied by the actor.
	Reason string

	// Request-origin metadata captured for the audit trail.
	IPAddress  string
	DeviceInfo string

	PerformedAt int64
}
