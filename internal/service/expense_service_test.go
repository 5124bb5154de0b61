package service

import (
	"context"
	"errors"
	"testing"

	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

func TestExpenseCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExpenseService(env.store)
	ctx := context.Background()

	base := func() CreateExpenseInput {
		return CreateExpenseInput{
			GroupID:        env.group.ID,
			Amount:         1000,
			Category:       "food",
			PaidByMemberID: env.alice.ID,
			ExpenseDate:    "2026-08-30",
			Splits:         []SplitInput{{MemberID: env.alice.ID, Amount: 1000}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateExpenseInput)
	}{
		{"zero amount", func(in *CreateExpenseInput) { in.Amount = 0 }},
		{"negative amount", func(in *CreateExpenseInput) { in.Amount = -5 }},
		{"missing category", func(in *CreateExpenseInput) { in.Category = "" }},
		{"missing payer", func(in *CreateExpenseInput) { in.PaidByMemberID = "" }},
		{"missing date", func(in *CreateExpenseInput) { in.ExpenseDate = "" }},
		{"no splits", func(in *CreateExpenseInput) { in.Splits = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			_, err := svc.Create(ctx, env.owner, in)
			if !IsValidation(err) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}

	t.Run("payer from another group rejected", func(t *testing.T) {
		// A second group with its own member.
		if err := env.store.CreateGroup(ctx, &models.Group{ID: "g2", Name: "Other", OwnerID: env.other.ID, IsActive: true}); err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		stranger := &models.Member{GroupID: "g2", Name: "Stranger"}
		if err := env.store.AddMember(ctx, stranger); err != nil {
			t.Fatalf("AddMember: %v", err)
		}

		in := base()
		in.PaidByMemberID = stranger.ID
		if _, err := svc.Create(ctx, env.owner, in); !IsValidation(err) {
			t.Errorf("Create() error = %v, want ValidationError", err)
		}
	})

	t.Run("date with time component trimmed", func(t *testing.T) {
		in := base()
		in.ExpenseDate = "2026-08-30T18:00:00Z"
		expense, err := svc.Create(ctx, env.owner, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if expense.ExpenseDate != "2026-08-30" {
			t.Errorf("ExpenseDate = %q, want 2026-08-30", expense.ExpenseDate)
		}
	})

	t.Run("default currency applied", func(t *testing.T) {
		in := base()
		in.Splits = []SplitInput{{MemberID: env.bob.ID, Amount: 1000}}
		expense, err := svc.Create(ctx, env.owner, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if expense.Currency != "JPY" {
			t.Errorf("Currency = %q, want JPY", expense.Currency)
		}
	})
}

func TestExpenseCreateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExpenseService(env.store)
	ctx := context.Background()

	in := CreateExpenseInput{
		GroupID:        env.group.ID,
		Amount:         1000,
		Category:       "food",
		PaidByMemberID: env.alice.ID,
		ExpenseDate:    "2026-08-30",
		Splits:         []SplitInput{{MemberID: env.alice.ID, Amount: 1000}},
	}

	t.Run("non-member denied", func(t *testing.T) {
		_, err := svc.Create(ctx, env.other, in)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("Create() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("member without capability denied and nothing written", func(t *testing.T) {
		restricted := &models.User{ID: "u-restricted", Email: "r@example.com", DisplayName: "R", IsActive: true}
		if err := env.store.CreateUser(ctx, restricted); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		err := env.store.PutMembership(ctx, &models.Membership{
			GroupID: env.group.ID, UserID: restricted.ID, Role: models.RoleMember,
		})
		if err != nil {
			t.Fatalf("PutMembership: %v", err)
		}

		if _, err := svc.Create(ctx, restricted, in); !errors.Is(err, ErrForbidden) {
			t.Errorf("Create() error = %v, want ErrForbidden", err)
		}

		expenses, err := env.store.ListExpenses(ctx, env.group.ID)
		if err != nil {
			t.Fatalf("ListExpenses: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("denied creation still wrote %d expenses", len(expenses))
		}
	})

	t.Run("member with capability allowed", func(t *testing.T) {
		if _, err := svc.Create(ctx, env.member, in); err != nil {
			t.Errorf("Create() error = %v, want nil", err)
		}
	})
}

func TestExpenseDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExpenseService(env.store)
	ctx := context.Background()

	t.Run("creator may delete own expense", func(t *testing.T) {
		expense, err := svc.Create(ctx, env.member, CreateExpenseInput{
			GroupID:        env.group.ID,
			Amount:         500,
			Category:       "food",
			PaidByMemberID: env.alice.ID,
			ExpenseDate:    "2026-08-30",
			Splits:         []SplitInput{{MemberID: env.alice.ID, Amount: 500}},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := svc.Delete(ctx, env.member, expense.ID); err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
	})

	t.Run("plain member cannot delete another's expense", func(t *testing.T) {
		expense := env.createExpense(t, svc)
		if err := svc.Delete(ctx, env.member, expense.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Delete() error = %v, want ErrForbidden", err)
		}

		// Owner can.
		if err := svc.Delete(ctx, env.owner, expense.ID); err != nil {
			t.Errorf("owner Delete() error = %v, want nil", err)
		}
	})

	t.Run("deleting a deleted expense is not found", func(t *testing.T) {
		expense := env.createExpense(t, svc)
		if err := svc.Delete(ctx, env.owner, expense.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := svc.Delete(ctx, env.owner, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestExpenseList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExpenseService(env.store)
	ctx := context.Background()

	env.createExpense(t, svc)

	t.Run("member sees expenses with splits", func(t *testing.T) {
		expenses, err := svc.List(ctx, env.member, env.group.ID)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(expenses) != 1 {
			t.Fatalf("count = %d, want 1", len(expenses))
		}
		if len(expenses[0].Splits) != 2 {
			t.Errorf("splits = %d, want 2", len(expenses[0].Splits))
		}
	})

	t.Run("non-member denied", func(t *testing.T) {
		if _, err := svc.List(ctx, env.other, env.group.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("List() error = %v, want ErrForbidden", err)
		}
	})
}
