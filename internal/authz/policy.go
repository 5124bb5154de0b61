// Package authz holds the authorization policy for guarded ledger actions.
//
// Every predicate is a pure function over the caller-supplied membership
// and ownership facts; the package performs no I/O, which keeps the policy
// testable without any transport or storage dependency. A nil membership
// means the actor is not a member of the group and denies everything.
package authz

import (
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// CanAddExpense reports whether the membership allows creating expenses:
// owners always can, others need the can_add_expenses capability.
func CanAddExpense(m *models.Membership) bool {
	if m == nil {
		return false
	}
	return m.Role == models.RoleOwner || m.CanAddExpenses
}

// CanDeleteExpense reports whether the actor may delete the expense:
// owners, holders of can_edit_all_expenses, and the expense's creator.
func CanDeleteExpense(m *models.Membership, expense *models.Expense, actorID string) bool {
	if m == nil {
		return false
	}
	return m.Role == models.RoleOwner || m.CanEditAllExpenses || expense.CreatedBy == actorID
}

// CanMarkPaid reports whether the actor may change the split's settlement
// state. Permitted when the actor has a personal stake (the split is
// theirs, or they paid the expense) or sufficient standing (owner, or
// admin with the can_mark_paid capability).
func CanMarkPaid(m *models.Membership, detail *storage.SplitDetail, actorID string) bool {
	if detail.SplitMemberUserID != "" && detail.SplitMemberUserID == actorID {
		return true
	}
	if detail.PayerUserID != "" && detail.PayerUserID == actorID {
		return true
	}
	if m == nil {
		return false
	}
	if m.Role == models.RoleOwner {
		return true
	}
	return m.Role == models.RoleAdmin && m.CanMarkPaid
}
