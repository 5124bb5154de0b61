package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"budgetsplitter/internal/auth"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// AuthService handles identity registration, login, and per-request
// credential resolution. Tokens are JWTs that are additionally persisted
// in storage, so a request is only authenticated while its row exists and
// has not expired; logout simply deletes the row.
type AuthService struct {
	store         storage.Store
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		store:         store,
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new identity and issues its first token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password, deviceName string) (*models.User, string, error) {
	if email == "" {
		return nil, "", &ValidationError{Field: "email", Reason: "required"}
	}
	if len(displayName) < 2 {
		return nil, "", &ValidationError{Field: "displayName", Reason: "required"}
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		slog.Warn("registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user, deviceName)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user, records the login, and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password, deviceName string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", &ValidationError{Field: "credentials", Reason: "email and password required"}
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("login failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user, deviceName)
	if err != nil {
		return nil, "", err
	}

	if err := s.store.RecordLogin(ctx, user.ID, time.Now()); err != nil {
		slog.Error("failed to record login", "user_id", user.ID, "error", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Logout invalidates a token by deleting its persisted row. The JWT may
// still verify cryptographically, but ResolveToken will reject it.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteToken(ctx, token)
}

// ResolveToken validates a bearer token and returns its identity.
// Resolution is stateless per request: the JWT is verified, the persisted
// token row is checked for existence and expiry, and its last-use
// timestamp is updated.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.jwtManager.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	row, err := s.store.GetToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	if err := s.store.TouchToken(ctx, tokenString, time.Now()); err != nil {
		slog.Error("failed to touch token", "user_id", row.UserID, "error", err)
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User, deviceName string) (string, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("failed to generate token", "user_id", user.ID, "error", err)
		return "", err
	}

	now := time.Now()
	err = s.store.CreateToken(ctx, &models.AuthToken{
		Token:      token,
		UserID:     user.ID,
		DeviceName: deviceName,
		ExpiresAt:  now.Add(s.jwtManager.TokenDuration()).Unix(),
		CreatedAt:  now.Unix(),
	})
	if err != nil {
		slog.Error("failed to persist token", "user_id", user.ID, "error", err)
		return "", err
	}
	return token, nil
}
