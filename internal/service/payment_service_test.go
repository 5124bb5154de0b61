package service

import (
	"context"
	"errors"
	"testing"

	"budgetsplitter/internal/models"
	"budgetsplitter/internal/storage"
)

func TestSetPaid(t *testing.T) {
	env := newTestEnv(t)
	expenses := NewExpenseService(env.store)
	payments := NewPaymentService(env.store)
	ctx := context.Background()

	expense := env.createExpense(t, expenses)
	var aliceSplit, bobSplit models.ExpenseSplit
	for _, s := range expense.Splits {
		switch s.MemberID {
		case env.alice.ID:
			aliceSplit = s
		case env.bob.ID:
			bobSplit = s
		}
	}

	origin := RequestOrigin{IPAddress: "10.0.0.1", DeviceInfo: "test-agent"}

	t.Run("member settles own split", func(t *testing.T) {
		err := payments.SetPaid(ctx, env.member, aliceSplit.ID, true, "cash", origin)
		if err != nil {
			t.Fatalf("SetPaid: %v", err)
		}

		history, err := payments.History(ctx, env.member, aliceSplit.ID)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 1 || history[0].Action != models.ActionMarkedPaid {
			t.Errorf("history = %+v, want one marked_paid entry", history)
		}
		if history[0].PerformedByName != "Member" {
			t.Errorf("PerformedByName = %q, want Member", history[0].PerformedByName)
		}
	})

	t.Run("payer identity settles any split of their expense", func(t *testing.T) {
		// Alice is linked to the member identity and paid the expense, so
		// the member identity may settle Bob's split too.
		if err := payments.SetPaid(ctx, env.member, bobSplit.ID, true, "", origin); err != nil {
			t.Errorf("SetPaid() error = %v, want nil", err)
		}
	})

	t.Run("non-member denied without audit row", func(t *testing.T) {
		err := payments.SetPaid(ctx, env.other, aliceSplit.ID, false, "", origin)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("SetPaid() error = %v, want ErrForbidden", err)
		}

		history, err := payments.History(ctx, env.owner, aliceSplit.ID)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("denied attempt appended history: %d entries, want 1", len(history))
		}
	})

	t.Run("owner reverses to unpaid", func(t *testing.T) {
		if err := payments.SetPaid(ctx, env.owner, aliceSplit.ID, false, "typo", origin); err != nil {
			t.Fatalf("SetPaid: %v", err)
		}

		detail, err := env.store.GetSplitDetail(ctx, aliceSplit.ID)
		if err != nil {
			t.Fatalf("GetSplitDetail: %v", err)
		}
		if detail.Split.IsPaid {
			t.Error("IsPaid = true, want false after reversal")
		}

		history, err := payments.History(ctx, env.owner, aliceSplit.ID)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history entries = %d, want 2", len(history))
		}
		if history[0].Action != models.ActionMarkedUnpaid {
			t.Errorf("newest action = %q, want marked_unpaid", history[0].Action)
		}
	})

	t.Run("admin needs the capability", func(t *testing.T) {
		admin := &models.User{ID: "u-admin", Email: "admin@example.com", DisplayName: "Admin", IsActive: true}
		if err := env.store.CreateUser(ctx, admin); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		err := env.store.PutMembership(ctx, &models.Membership{
			GroupID: env.group.ID, UserID: admin.ID, Role: models.RoleAdmin,
		})
		if err != nil {
			t.Fatalf("PutMembership: %v", err)
		}

		if err := payments.SetPaid(ctx, admin, aliceSplit.ID, true, "", origin); !errors.Is(err, ErrForbidden) {
			t.Errorf("SetPaid() error = %v, want ErrForbidden", err)
		}

		err = env.store.PutMembership(ctx, &models.Membership{
			GroupID: env.group.ID, UserID: admin.ID, Role: models.RoleAdmin, CanMarkPaid: true,
		})
		if err != nil {
			t.Fatalf("PutMembership: %v", err)
		}
		if err := payments.SetPaid(ctx, admin, aliceSplit.ID, true, "", origin); err != nil {
			t.Errorf("SetPaid() error = %v, want nil with capability", err)
		}
	})

	t.Run("unknown split", func(t *testing.T) {
		err := payments.SetPaid(ctx, env.owner, "nope", true, "", origin)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("SetPaid() error = %v, want ErrNotFound", err)
		}
	})
}

func TestHistoryAfterExpenseDeletion(t *testing.T) {
	env := newTestEnv(t)
	expenses := NewExpenseService(env.store)
	payments := NewPaymentService(env.store)
	ctx := context.Background()

	expense := env.createExpense(t, expenses)
	splitID := expense.Splits[0].ID

	origin := RequestOrigin{}
	if err := payments.SetPaid(ctx, env.owner, splitID, true, "", origin); err != nil {
		t.Fatalf("SetPaid: %v", err)
	}
	if err := expenses.Delete(ctx, env.owner, expense.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	t.Run("history remains readable", func(t *testing.T) {
		history, err := payments.History(ctx, env.member, splitID)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("history entries = %d, want 1", len(history))
		}
	})

	t.Run("settlement is rejected", func(t *testing.T) {
		err := payments.SetPaid(ctx, env.owner, splitID, false, "", origin)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("SetPaid() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("history still gated on membership", func(t *testing.T) {
		if _, err := payments.History(ctx, env.other, splitID); !errors.Is(err, ErrForbidden) {
			t.Errorf("History() error = %v, want ErrForbidden", err)
		}
	})
}
