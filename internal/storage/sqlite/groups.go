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

// CreateGroup persists a new group. The ID is generated when empty, so the
// local-mode bootstrap can insert its fixed "default" group.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, owner_id, is_active, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.OwnerID, group.IsActive, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, is_active, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.IsActive, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsByOwner retrieves the active groups owned by a user.
func (s *SQLiteStore) ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, owner_id, is_active, created_at FROM groups WHERE owner_id = ? AND is_active = 1",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.OwnerID, &group.IsActive, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// PutMembership inserts or replaces a user's membership in a group.
func (s *SQLiteStore) PutMembership(ctx context.Context, m *models.Membership) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO group_members
		 (group_id, user_id, role, can_add_expenses, can_edit_all_expenses, can_mark_paid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.GroupID, m.UserID, string(m.Role), m.CanAddExpenses, m.CanEditAllExpenses, m.CanMarkPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to put membership: %w", err)
	}
	return nil
}

// GetMembership retrieves a user's membership in a group.
// Returns (nil, nil) when the user is not a member; absence is an
// authorization fact the policy layer handles, not a storage failure.
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, user_id, role, can_add_expenses, can_edit_all_expenses, can_mark_paid
		 FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&m.GroupID, &m.UserID, &role, &m.CanAddExpenses, &m.CanEditAllExpenses, &m.CanMarkPaid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	m.Role = models.Role(role)
	return m, nil
}
