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

// GetSplitDetail loads a split together with the ownership facts the
// authorization policy needs, in a single query: the parent expense's
// group and deletion state, the identity behind the split's member, and
// the identity behind the paying member. Splits of soft-deleted expenses
// are still returned (history stays readable after deletion); callers
// that mutate must check ExpenseDeleted.
func (s *SQLiteStore) GetSplitDetail(ctx context.Context, splitID string) (*storage.SplitDetail, error) {
	detail := &storage.SplitDetail{}
	var paidAt sql.NullInt64
	var markedBy, splitUserID, payerUserID sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT es.id, es.expense_id, es.member_id, es.amount, es.is_paid, es.paid_at,
		        es.marked_paid_by_user_id, es.notes,
		        e.group_id, e.is_deleted, m.user_id, pm.user_id
		 FROM expense_splits es
		 JOIN expenses e ON es.expense_id = e.id
		 JOIN members m ON es.member_id = m.id
		 JOIN members pm ON e.paid_by_member_id = pm.id
		 WHERE es.id = ?`,
		splitID,
	).Scan(
		&detail.Split.ID, &detail.Split.ExpenseID, &detail.Split.MemberID,
		&detail.Split.Amount, &detail.Split.IsPaid, &paidAt, &markedBy, &detail.Split.Notes,
		&detail.GroupID, &detail.ExpenseDeleted, &splitUserID, &payerUserID,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: split %s", storage.ErrNotFound, splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split detail: %w", err)
	}

	detail.Split.PaidAt = paidAt.Int64
	detail.Split.MarkedPaidBy = markedBy.String
	detail.ExpenseID = detail.Split.ExpenseID
	detail.SplitMemberUserID = splitUserID.String
	detail.PayerUserID = payerUserID.String
	return detail, nil
}

// SetSplitPayment updates a split's paid state and appends the matching
// payment history entry. Both writes commit together or neither does.
// Setting the state to its current value is accepted and still appends a
// history entry; the audit log records every attempt.
func (s *SQLiteStore) SetSplitPayment(ctx context.Context, p storage.SplitPayment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Re-read inside the transaction so the notes merge and the existence
	// check are consistent with the update.
	var notes string
	err = tx.QueryRowContext(ctx,
		`SELECT es.notes FROM expense_splits es
		 JOIN expenses e ON es.expense_id = e.id
		 WHERE es.id = ? AND e.is_deleted = 0`,
		p.SplitID,
	).Scan(&notes)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: split %s", storage.ErrNotFound, p.SplitID)
	}
	if err != nil {
		return fmt.Errorf("failed to load split: %w", err)
	}

	if p.Reason != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += p.Reason
	}

	now := time.Now().Unix()
	var paidAt interface{}
	if p.IsPaid {
		paidAt = now
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expense_splits
		 SET is_paid = ?, paid_at = ?, marked_paid_by_user_id = ?, notes = ?
		 WHERE id = ?`,
		p.IsPaid, paidAt, p.ActorID, notes, p.SplitID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}

	action := models.ActionMarkedUnpaid
	if p.IsPaid {
		action = models.ActionMarkedPaid
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_history
		 (id, expense_split_id, action, performed_by_user_id, reason, ip_address, device_info, performed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), p.SplitID, string(action), p.ActorID, p.Reason, p.IPAddress, p.DeviceInfo, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListPaymentHistory returns all history entries for a split, newest
// first, each resolved to the performing identity's display name.
// History survives expense soft deletion, so there is no is_deleted
// filter here.
func (s *SQLiteStore) ListPaymentHistory(ctx context.Context, splitID string) ([]*models.PaymentHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ph.id, ph.expense_split_id, ph.action, ph.performed_by_user_id, u.display_name,
		        ph.reason, ph.ip_address, ph.device_info, ph.performed_at
		 FROM payment_history ph
		 JOIN users u ON ph.performed_by_user_id = u.id
		 WHERE ph.expense_split_id = ?
		 ORDER BY ph.performed_at DESC, ph.rowid DESC`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	defer rows.Close()

	var entries []*models.PaymentHistoryEntry
	for rows.Next() {
		entry := &models.PaymentHistoryEntry{}
		var action string
		if err := rows.Scan(&entry.ID, &entry.SplitID, &action, &entry.PerformedBy,
			&entry.PerformedByName, &entry.Reason, &entry.IPAddress, &entry.DeviceInfo,
			&entry.PerformedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Action = models.PaymentAction(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}
