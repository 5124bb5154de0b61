package service

import (
	"context"
	"fmt"
	"log/slog"

	"budgetsplitter/internal/authz"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// RequestOrigin carries the client metadata recorded with every
// settlement action.
type RequestOrigin struct {
	IPAddress  string
	DeviceInfo string
}

// PaymentService implements the settlement state machine on expense
// splits. Both states are reachable from the other; every transition,
// including a no-op re-assertion of the current state, appends an audit
// row in the same transaction as the split update.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// SetPaid transitions a split to paid or unpaid. The actor must have a
// personal stake (own split, or payer of the expense) or sufficient
// standing (owner, or admin with can_mark_paid). A denial changes nothing
// and writes no audit row.
func (s *PaymentService) SetPaid(ctx context.Context, actor *models.User, splitID string, isPaid bool, reason string, origin RequestOrigin) error {
	detail, err := s.store.GetSplitDetail(ctx, splitID)
	if err != nil {
		return err
	}
	if detail.ExpenseDeleted {
		return fmt.Errorf("%w: split %s", storage.ErrNotFound, splitID)
	}

	membership, err := s.store.GetMembership(ctx, detail.GroupID, actor.ID)
	if err != nil {
		return err
	}
	if !authz.CanMarkPaid(membership, detail, actor.ID) {
		return fmt.Errorf("%w: cannot change payment state", ErrForbidden)
	}

	err = s.store.SetSplitPayment(ctx, storage.SplitPayment{
		SplitID:    splitID,
		IsPaid:     isPaid,
		ActorID:    actor.ID,
		Reason:     reason,
		IPAddress:  origin.IPAddress,
		DeviceInfo: origin.DeviceInfo,
	})
	if err != nil {
		return err
	}

	slog.Info("split payment state changed",
		"split_id", splitID,
		"is_paid", isPaid,
		"actor_id", actor.ID,
	)
	return nil
}

// History returns the split's audit trail, newest first. It stays
// readable after the parent expense is soft-deleted. The actor must be a
// member of the expense's group.
func (s *PaymentService) History(ctx context.Context, actor *models.User, splitID string) ([]*models.PaymentHistoryEntry, error) {
	detail, err := s.store.GetSplitDetail(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMembership(ctx, s.store, detail.GroupID, actor.ID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentHistory(ctx, splitID)
}
