package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, is_active, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		nullInt64(user.LastLoginAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
// Returns (nil, nil) when no such user exists.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by their ID.
// Returns (nil, nil) when no such user exists.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, display_name, password_hash, is_active, created_at, last_login_at
		FROM users
		WHERE %s = ?
	`, column)

	user := &models.User{}
	var lastLogin sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	user.LastLoginAt = lastLogin.Int64

	return user, nil
}

// RecordLogin updates the user's last-login timestamp.
func (s *SQLiteStore) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = ? WHERE id = ?",
		at.Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// CreateToken persists a bearer token row.
func (s *SQLiteStore) CreateToken(ctx context.Context, token *models.AuthToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id, device_name, expires_at, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		token.Token, token.UserID, token.DeviceName, token.ExpiresAt, token.CreatedAt,
		nullInt64(token.LastUsedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// GetToken retrieves a non-expired token row.
func (s *SQLiteStore) GetToken(ctx context.Context, token string) (*models.AuthToken, error) {
	row := &models.AuthToken{}
	var lastUsed sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, device_name, expires_at, created_at, last_used_at
		 FROM auth_tokens WHERE token = ? AND expires_at > ?`,
		token, time.Now().Unix(),
	).Scan(&row.Token, &row.UserID, &row.DeviceName, &row.ExpiresAt, &row.CreatedAt, &lastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: token", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	row.LastUsedAt = lastUsed.Int64
	return row, nil
}

// TouchToken records that a token was used.
func (s *SQLiteStore) TouchToken(ctx context.Context, token string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE auth_tokens SET last_used_at = ? WHERE token = ?",
		at.Unix(), token,
	)
	if err != nil {
		return fmt.Errorf("failed to touch token: %w", err)
	}
	return nil
}

// DeleteToken removes a token row (logout).
func (s *SQLiteStore) DeleteToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// DeleteExpiredTokens removes all expired token rows and returns how many
// were deleted. Called periodically by the sweeper in cmd/server.
func (s *SQLiteStore) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM auth_tokens WHERE expires_at <= ?", now.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted tokens: %w", err)
	}
	return n, nil
}

// nullInt64 maps 0 to NULL for optional timestamp columns.
func nullInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
