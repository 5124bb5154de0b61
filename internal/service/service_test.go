package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
	"budgetsplitter/internal/storage/sqlite"
)

// testEnv is a real SQLite store seeded with one group, its owner, a
// plain member identity, and two unlinked members.
type testEnv struct {
	store storage.Store

	owner  *models.User // group owner
	member *models.User // member identity without extra capabilities
	other  *models.User // registered but not in the group

	group *models.Group
	alice *models.Member // linked to member identity
	bob   *models.Member
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{store: store}

	newUser := func(id, email, name string) *models.User {
		u := &models.User{ID: id, Email: email, DisplayName: name, IsActive: true, CreatedAt: time.Now().Unix()}
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("failed to create user %s: %v", id, err)
		}
		return u
	}
	env.owner = newUser("u-owner", "owner@example.com", "Owner")
	env.member = newUser("u-member", "member@example.com", "Member")
	env.other = newUser("u-other", "other@example.com", "Other")

	env.group = &models.Group{ID: "g1", Name: "Trip", OwnerID: env.owner.ID, IsActive: true}
	if err := store.CreateGroup(ctx, env.group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	memberships := []*models.Membership{
		{GroupID: "g1", UserID: env.owner.ID, Role: models.RoleOwner, CanAddExpenses: true, CanEditAllExpenses: true, CanMarkPaid: true},
		{GroupID: "g1", UserID: env.member.ID, Role: models.RoleMember, CanAddExpenses: true},
	}
	for _, m := range memberships {
		if err := store.PutMembership(ctx, m); err != nil {
			t.Fatalf("failed to put membership: %v", err)
		}
	}

	env.alice = &models.Member{GroupID: "g1", UserID: env.member.ID, Name: "Alice"}
	if err := store.AddMember(ctx, env.alice); err != nil {
		t.Fatalf("failed to add alice: %v", err)
	}
	env.bob = &models.Member{GroupID: "g1", Name: "Bob"}
	if err := store.AddMember(ctx, env.bob); err != nil {
		t.Fatalf("failed to add bob: %v", err)
	}

	return env
}

// createExpense inserts a valid two-way split expense as the owner.
func (env *testEnv) createExpense(t *testing.T, svc *ExpenseService) *models.Expense {
	t.Helper()
	expense, err := svc.Create(context.Background(), env.owner, CreateExpenseInput{
		GroupID:        env.group.ID,
		Description:    "dinner",
		Amount:         3000,
		Category:       "food",
		PaidByMemberID: env.alice.ID,
		ExpenseDate:    "2026-08-30",
		Splits: []SplitInput{
			{MemberID: env.alice.ID, Amount: 1500},
			{MemberID: env.bob.ID, Amount: 1500},
		},
	})
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	return expense
}
