package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgetsplitter/internal/auth"
	"budgetsplitter/internal/config"
	"budgetsplitter/internal/handlers"
	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/service"
	"budgetsplitter/internal/storage"
	"budgetsplitter/internal/storage/sqlite"
	"budgetsplitter/pkg/logging"
)

// Fixed identifiers for the seeded local-mode group and its owner.
const (
	localUserID  = "local"
	localGroupID = "default"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	groupService := service.NewGroupService(store, cfg.SeedMembers)
	expenseService := service.NewExpenseService(store)
	paymentService := service.NewPaymentService(store)

	var authService *service.AuthService
	var identity func(http.Handler) http.Handler

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeLocal:
		localUser, err := bootstrapLocal(ctx, store, cfg.SeedMembers)
		if err != nil {
			return fmt.Errorf("local bootstrap failed: %w", err)
		}
		identity = middleware.StaticIdentity(localUser)

	case config.ModeMulti:
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
		authenticator := auth.NewPasswordAuthenticator(store)
		authService = service.NewAuthService(store, authenticator, jwtManager)
		identity = middleware.RequireAuth(authService.ResolveToken, handlers.WriteError)
	}

	defaultGroupID := ""
	if cfg.Mode == config.ModeLocal {
		defaultGroupID = localGroupID
	}

	h := handlers.New(authService, groupService, expenseService, paymentService, cfg.Mode, defaultGroupID)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h.Router(identity),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "port", cfg.Port, "mode", cfg.Mode, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Mode == config.ModeMulti {
		g.Go(func() error {
			return sweepExpiredTokens(ctx, store, cfg.SweepInterval)
		})
	}

	return g.Wait()
}

// bootstrapLocal seeds the synthetic owner identity, the default group,
// and the initial member list. Idempotent across restarts.
func bootstrapLocal(ctx context.Context, store storage.Store, seedNames []string) (*models.User, error) {
	user, err := store.GetUserByID(ctx, localUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{
			ID:          localUserID,
			Email:       "local@localhost",
			DisplayName: "Local",
			IsActive:    true,
			CreatedAt:   time.Now().Unix(),
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, err
		}
	}

	_, err = store.GetGroup(ctx, localGroupID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	group := &models.Group{ID: localGroupID, Name: "My Trip", OwnerID: user.ID, IsActive: true}
	if err := store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	err = store.PutMembership(ctx, &models.Membership{
		GroupID:            localGroupID,
		UserID:             user.ID,
		Role:               models.RoleOwner,
		CanAddExpenses:     true,
		CanEditAllExpenses: true,
		CanMarkPaid:        true,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range seedNames {
		if err := store.AddMember(ctx, &models.Member{GroupID: localGroupID, Name: name}); err != nil {
			return nil, err
		}
	}

	slog.Info("seeded local group", "group_id", localGroupID, "members", len(seedNames))
	return user, nil
}

// sweepExpiredTokens periodically deletes expired auth token rows.
func sweepExpiredTokens(ctx context.Context, store storage.Store, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := store.DeleteExpiredTokens(ctx, time.Now())
			if err != nil {
				slog.Error("token sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("swept expired tokens", "deleted", n)
			}
		}
	}
}
