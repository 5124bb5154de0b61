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

// AddMember inserts a new member into a group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members (id, group_id, user_id, name, created_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.GroupID, nullString(member.UserID), member.Name, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member := &models.Member{}
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, user_id, name, created_at FROM members WHERE id = ?",
		memberID,
	).Scan(&member.ID, &member.GroupID, &userID, &member.Name, &member.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: member %s", storage.ErrNotFound, memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	member.UserID = userID.String
	return member, nil
}

// ListMembers retrieves all members of a group ordered by name.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, user_id, name, created_at FROM members WHERE group_id = ? ORDER BY name",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		var userID sql.NullString
		if err := rows.Scan(&member.ID, &member.GroupID, &userID, &member.Name, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.UserID = userID.String
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// CountExpensesPaidBy counts non-deleted expenses paid by a member.
func (s *SQLiteStore) CountExpensesPaidBy(ctx context.Context, memberID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE paid_by_member_id = ? AND is_deleted = 0",
		memberID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses paid by member: %w", err)
	}
	return count, nil
}

// RemoveMember deletes a member and its splits in one transaction. Any
// expenses the member paid for are first reassigned to fallbackMemberID;
// the service layer guarantees a fallback exists whenever the member still
// has non-deleted expenses.
func (s *SQLiteStore) RemoveMember(ctx context.Context, memberID, fallbackMemberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM members WHERE id = ?", memberID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: member %s", storage.ErrNotFound, memberID)
	}
	if err != nil {
		return fmt.Errorf("failed to check member existence: %w", err)
	}

	if fallbackMemberID != "" {
		// Reassign every expense referencing the member, soft-deleted ones
		// included, so no expense row is left with a dangling payer.
		_, err = tx.ExecContext(ctx,
			"UPDATE expenses SET paid_by_member_id = ? WHERE paid_by_member_id = ?",
			fallbackMemberID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to reassign expenses: %w", err)
		}
	}

	// The member's splits are dropped outright; their payment history
	// cascades away with them.
	_, err = tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE member_id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member splits: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetGroup destructively clears all members, expenses, splits and
// history for a group and repopulates members from seedNames. The whole
// reset is one transaction.
func (s *SQLiteStore) ResetGroup(ctx context.Context, groupID string, seedNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Splits and history cascade from the expense delete.
	_, err = tx.ExecContext(ctx, "DELETE FROM expenses WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM members WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}

	now := time.Now().Unix()
	for _, name := range seedNames {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO members (id, group_id, name, created_at) VALUES (?, ?, ?, ?)",
			uuid.New().String(), groupID, name, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert seed member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullString maps "" to NULL for optional reference columns.
func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
