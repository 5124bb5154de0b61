package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetsplitter/internal/authz"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

const defaultCurrency = "JPY"

// SplitInput is one member's share in an expense creation request.
type SplitInput struct {
	MemberID string
	Amount   float64
}

// CreateExpenseInput carries everything needed to record an expense.
type CreateExpenseInput struct {
	GroupID        string
	Description    string
	Amount         float64
	Currency       string
	Category       string
	PaidByMemberID string
	ExpenseDate    string
	Splits         []SplitInput
}

// ExpenseService implements the expense ledger: atomic creation, ordered
// listing, and uniform soft deletion.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Create validates the input, checks the actor may add expenses to the
// group, and persists the expense and all its splits atomically.
// Split amounts are intentionally not required to sum to the expense
// amount; over- and under-allocation are allowed.
func (s *ExpenseService) Create(ctx context.Context, actor *models.User, in CreateExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if in.Category == "" {
		return nil, &ValidationError{Field: "category", Reason: "required"}
	}
	if in.PaidByMemberID == "" {
		return nil, &ValidationError{Field: "paidByMemberId", Reason: "required"}
	}
	if in.ExpenseDate == "" {
		return nil, &ValidationError{Field: "expenseDate", Reason: "required"}
	}
	if len(in.Splits) == 0 {
		return nil, &ValidationError{Field: "splits", Reason: "at least one split required"}
	}

	membership, err := requireMembership(ctx, s.store, in.GroupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAddExpense(membership) {
		return nil, fmt.Errorf("%w: cannot add expenses", ErrForbidden)
	}

	// The paying member and every split member must belong to the group.
	if err := s.checkMemberInGroup(ctx, in.PaidByMemberID, in.GroupID, "paidByMemberId"); err != nil {
		return nil, err
	}
	for _, split := range in.Splits {
		if err := s.checkMemberInGroup(ctx, split.MemberID, in.GroupID, "splits"); err != nil {
			return nil, err
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	expense := &models.Expense{
		GroupID:        in.GroupID,
		Description:    in.Description,
		Amount:         in.Amount,
		Currency:       currency,
		Category:       in.Category,
		PaidByMemberID: in.PaidByMemberID,
		ExpenseDate:    dateOnly(in.ExpenseDate),
		CreatedBy:      actor.ID,
	}
	for _, split := range in.Splits {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			MemberID: split.MemberID,
			Amount:   split.Amount,
		})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("expense creation failed", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	slog.Info("expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"currency", expense.Currency,
		"splits", len(expense.Splits),
	)
	return expense, nil
}

// List returns the group's non-deleted expenses, newest expense date
// first, splits attached. The actor must be a member.
func (s *ExpenseService) List(ctx context.Context, actor *models.User, groupID string) ([]*models.Expense, error) {
	if _, err := requireMembership(ctx, s.store, groupID, actor.ID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, groupID)
}

// Delete soft-deletes an expense, keeping its splits and payment history
// for audit. Allowed for the group owner, holders of can_edit_all_expenses,
// and the expense's creator.
func (s *ExpenseService) Delete(ctx context.Context, actor *models.User, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	membership, err := s.store.GetMembership(ctx, expense.GroupID, actor.ID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteExpense(membership, expense, actor.ID) {
		return fmt.Errorf("%w: cannot delete expense", ErrForbidden)
	}

	if err := s.store.SoftDeleteExpense(ctx, expenseID, actor.ID); err != nil {
		return err
	}

	slog.Info("expense deleted", "expense_id", expenseID, "group_id", expense.GroupID, "deleted_by", actor.ID)
	return nil
}

func (s *ExpenseService) checkMemberInGroup(ctx context.Context, memberID, groupID, field string) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member.GroupID != groupID {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("member %s does not belong to group %s", memberID, groupID)}
	}
	return nil
}

// dateOnly strips a time component from an ISO timestamp, keeping the
// YYYY-MM-DD part clients usually send.
func dateOnly(date string) string {
	if i := strings.IndexByte(date, 'T'); i > 0 {
		return date[:i]
	}
	return date
}
