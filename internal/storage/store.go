// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"budgetsplitter/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist or, for
// expenses, has already been soft-deleted. Implementations wrap it with
// context; callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// SplitDetail bundles a split with the ownership facts the authorization
// policy needs: who the split belongs to, who paid the parent expense, and
// which group the expense lives in. Loaded in a single query so the facts
// are mutually consistent.
type SplitDetail struct {
	Split models.ExpenseSplit

	GroupID           string
	ExpenseID         string
	ExpenseDeleted    bool   // parent expense is soft-deleted
	SplitMemberUserID string // identity linked to the split's member, "" if none
	PayerUserID       string // identity linked to the paying member, "" if none
}

// SplitPayment describes one settlement-state change. The store applies
// the split update and the history append in a single transaction.
type SplitPayment struct {
	SplitID    string
	IsPaid     bool
	ActorID    string
	Reason     string
	IPAddress  string
	DeviceInfo string
}

// Store defines the interface for ledger storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Identities.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RecordLogin(ctx context.Context, userID string, at time.Time) error

	// Bearer tokens.
	CreateToken(ctx context.Context, token *models.AuthToken) error
	GetToken(ctx context.Context, token string) (*models.AuthToken, error)
	TouchToken(ctx context.Context, token string, at time.Time) error
	DeleteToken(ctx context.Context, token string) error
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)

	// Groups and memberships.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error)
	PutMembership(ctx context.Context, m *models.Membership) error
	// GetMembership returns (nil, nil) when the user has no membership in
	// the group; that is an authorization fact, not a storage failure.
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// Members.
	AddMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)
	// RemoveMember deletes the member and its splits, first reassigning
	// any non-deleted expenses it paid to fallbackMemberID. The whole
	// operation is one transaction.
	RemoveMember(ctx context.Context, memberID, fallbackMemberID string) error
	// CountExpensesPaidBy counts non-deleted expenses paid by the member.
	CountExpensesPaidBy(ctx context.Context, memberID string) (int, error)
	// ResetGroup clears all members, expenses, splits and history for the
	// group and repopulates members from seedNames, atomically.
	ResetGroup(ctx context.Context, groupID string, seedNames []string) error

	// Expense ledger.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	SoftDeleteExpense(ctx context.Context, expenseID, deletedBy string) error

	// Settlement.
	GetSplitDetail(ctx context.Context, splitID string) (*SplitDetail, error)
	SetSplitPayment(ctx context.Context, p SplitPayment) error
	ListPaymentHistory(ctx context.Context, splitID string) ([]*models.PaymentHistoryEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
