package models

// Expense represents a single spend paid by one member of a group.
// An expense is immutable once created, except for the soft-delete
// transition; corrections are made by deleting and re-creating.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is free text, may be empty.
	Description string

	// Amount is the full expense amount. Split amounts are not required
	// to sum to it; over- and under-allocation are allowed.
	Amount float64

	// Currency is the ISO currency code (e.g., "JPY").
	Currency string

	// Category buckets the expense for summary totals (e.g., "food").
	Category string

	// PaidByMemberID is the member who fronted the money.
	PaidByMemberID string

	// ExpenseDate is the day the expense occurred, formatted YYYY-MM-DD.
	ExpenseDate string

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Soft-delete state. A deleted expense keeps its splits and payment
	// history but is excluded from listings and summaries.
	IsDeleted bool
	DeletedAt int64
	DeletedBy string

	// Splits is the per-member allocation, populated on reads.
	Splits []ExpenseSplit
}

// ExpenseSplit is one member's share of an expense. At most one split
// exists per (expense, member) pair.
type ExpenseSplit struct {
	ID        string
	ExpenseID string
	MemberID  string

	// Amount is what this member owes toward the expense.
	Amount float64

	// IsPaid is the live settlement state. It is a derived cache of the
	// latest payment history entry; the two are always written together.
	IsPaid bool

	// PaidAt is the Unix timestamp of the paid transition, 0 when unpaid.
	PaidAt int64

	// MarkedPaidBy is the user ID that last changed the paid flag.
	MarkedPaidBy string

	// Notes accumulates the reasons supplied with settlement changes.
	Notes string
}
