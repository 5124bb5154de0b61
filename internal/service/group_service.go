package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetsplitter/internal/calculator"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

// GroupService manages groups, their members, and balance summaries.
type GroupService struct {
	store     storage.Store
	seedNames []string
}

// NewGroupService creates a new GroupService. seedNames is the member
// list a group reset repopulates.
func NewGroupService(store storage.Store, seedNames []string) *GroupService {
	return &GroupService{store: store, seedNames: seedNames}
}

// ProvisionGroup creates a group owned by the given user, with a full
// owner membership and a member entry named after them. Called once at
// registration, and at startup to seed the local-mode default group.
func (s *GroupService) ProvisionGroup(ctx context.Context, owner *models.User, groupID, name string) (*models.Group, error) {
	group := &models.Group{ID: groupID, Name: name, OwnerID: owner.ID, IsActive: true}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	err := s.store.PutMembership(ctx, &models.Membership{
		GroupID:            group.ID,
		UserID:             owner.ID,
		Role:               models.RoleOwner,
		CanAddExpenses:     true,
		CanEditAllExpenses: true,
		CanMarkPaid:        true,
	})
	if err != nil {
		return nil, err
	}

	member := &models.Member{GroupID: group.ID, UserID: owner.ID, Name: owner.DisplayName}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, err
	}

	slog.Info("group provisioned", "group_id", group.ID, "owner_id", owner.ID, "name", name)
	return group, nil
}

// ListGroups returns the active groups owned by the actor.
func (s *GroupService) ListGroups(ctx context.Context, actor *models.User) ([]*models.Group, error) {
	return s.store.ListGroupsByOwner(ctx, actor.ID)
}

// ListMembers returns the group's members ordered by name. The actor must
// be a member of the group.
func (s *GroupService) ListMembers(ctx context.Context, actor *models.User, groupID string) ([]*models.Member, error) {
	if _, err := requireMembership(ctx, s.store, groupID, actor.ID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// AddMember adds a named participant to the group.
func (s *GroupService) AddMember(ctx context.Context, actor *models.User, groupID, name string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if _, err := requireMembership(ctx, s.store, groupID, actor.ID); err != nil {
		return nil, err
	}

	member := &models.Member{GroupID: groupID, Name: name}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, err
	}

	slog.Info("member added", "group_id", groupID, "member_id", member.ID, "name", name)
	return member, nil
}

// RemoveMember deletes a member from its group. Non-deleted expenses the
// member paid for are reassigned to an arbitrary remaining member first;
// when no remaining member exists the removal is rejected rather than
// leaving expenses with a dangling payer.
func (s *GroupService) RemoveMember(ctx context.Context, actor *models.User, memberID string) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if _, err := requireMembership(ctx, s.store, member.GroupID, actor.ID); err != nil {
		return err
	}

	paidCount, err := s.store.CountExpensesPaidBy(ctx, memberID)
	if err != nil {
		return err
	}

	fallbackID := ""
	members, err := s.store.ListMembers(ctx, member.GroupID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.ID != memberID {
			fallbackID = m.ID
			break
		}
	}

	if paidCount > 0 && fallbackID == "" {
		return fmt.Errorf("%w: cannot remove the last member while they still paid for %d expenses", ErrConflict, paidCount)
	}

	if err := s.store.RemoveMember(ctx, memberID, fallbackID); err != nil {
		return err
	}

	slog.Info("member removed",
		"group_id", member.GroupID,
		"member_id", memberID,
		"reassigned_expenses", paidCount,
		"fallback_member_id", fallbackID,
	)
	return nil
}

// ResetGroup destructively clears the group's ledger and repopulates its
// members from the configured seed list. Maintenance operation, owner only.
func (s *GroupService) ResetGroup(ctx context.Context, actor *models.User, groupID string) error {
	membership, err := requireMembership(ctx, s.store, groupID, actor.ID)
	if err != nil {
		return err
	}
	if membership.Role != models.RoleOwner {
		return ErrForbidden
	}

	if err := s.store.ResetGroup(ctx, groupID, s.seedNames); err != nil {
		return err
	}

	slog.Info("group reset", "group_id", groupID, "seeded_members", len(s.seedNames))
	return nil
}

// Summary computes the group's balance view on demand: per-member owed
// totals, per-category spend, and the overall spend, across non-deleted
// expenses only.
func (s *GroupService) Summary(ctx context.Context, actor *models.User, groupID string) (*calculator.Summary, error) {
	if _, err := requireMembership(ctx, s.store, groupID, actor.ID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := calculator.Summarize(members, expenses)
	return &summary, nil
}

// requireMembership loads the actor's membership in the group and denies
// the action when there is none.
func requireMembership(ctx context.Context, store storage.Store, groupID, userID string) (*models.Membership, error) {
	membership, err := store.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, fmt.Errorf("%w: not a member of group %s", ErrForbidden, groupID)
	}
	return membership, nil
}
