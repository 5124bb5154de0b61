package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// CreateExpense persists an expense and all of its splits as a single
// atomic unit. On any failure the whole transaction rolls back and no
// partial rows remain.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses
		 (id, group_id, description, amount, currency, category, paid_by_member_id, expense_date, created_by_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.Currency,
		expense.Category, expense.PaidByMemberID, expense.ExpenseDate, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, member_id, amount) VALUES (?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.MemberID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves a non-deleted expense by ID, splits attached.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.scanExpense(s.db.QueryRowContext(ctx,
		expenseColumns+" FROM expenses WHERE id = ? AND is_deleted = 0",
		expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.attachSplits(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns the non-deleted expenses of a group ordered by
// expense date descending, then creation time descending, each with its
// splits attached.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		expenseColumns+` FROM expenses
		 WHERE group_id = ? AND is_deleted = 0
		 ORDER BY expense_date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := s.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.attachSplits(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// SoftDeleteExpense marks an expense deleted, preserving its splits and
// history for audit. Returns ErrNotFound when the expense is absent or
// already deleted.
func (s *SQLiteStore) SoftDeleteExpense(ctx context.Context, expenseID, deletedBy string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET is_deleted = 1, deleted_at = ?, deleted_by_user_id = ?
		 WHERE id = ? AND is_deleted = 0`,
		time.Now().Unix(), deletedBy, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft-delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	return nil
}

const expenseColumns = `SELECT id, group_id, description, amount, currency, category,
	paid_by_member_id, expense_date, created_by_user_id, created_at,
	is_deleted, deleted_at, deleted_by_user_id`

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var deletedAt sql.NullInt64
	var deletedBy sql.NullString
	err := row.Scan(
		&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Currency, &expense.Category, &expense.PaidByMemberID,
		&expense.ExpenseDate, &expense.CreatedBy, &expense.CreatedAt,
		&expense.IsDeleted, &deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, err
	}
	expense.DeletedAt = deletedAt.Int64
	expense.DeletedBy = deletedBy.String
	return expense, nil
}

func (s *SQLiteStore) attachSplits(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, member_id, amount, is_paid, paid_at, marked_paid_by_user_id, notes
		 FROM expense_splits WHERE expense_id = ?`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.ExpenseSplit
		var paidAt sql.NullInt64
		var markedBy sql.NullString
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.MemberID, &split.Amount,
			&split.IsPaid, &paidAt, &markedBy, &split.Notes); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		split.PaidAt = paidAt.Int64
		split.MarkedPaidBy = markedBy.String
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
