package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered identity in multi-group mode.
//
// In local mode a single synthetic user is seeded at startup and injected
// into every request, so the rest of the system never needs to distinguish
// the two modes.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown in member lists and payment history.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for the seeded local-mode identity, which cannot log in.
	PasswordHash string

	// IsActive gates login; deactivated accounts keep their history.
	IsActive bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// LastLoginAt is the Unix timestamp of the most recent login, 0 if never.
	LastLoginAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().Unix(),
	}
}

// AuthToken is a persisted bearer credential. The JWT itself is the primary
// key; a request is only authenticated if its JWT verifies and the row
// still exists and has not expired. Every authenticated request updates
// LastUsedAt.
type AuthToken struct {
	Token      string
	UserID     string
	DeviceName string
	ExpiresAt  int64
	CreatedAt  int64
	LastUsedAt int64
}
