package calculator

import (
	"testing"

	"budgetsplitter/internal/models"
)

func TestSummarize(t *testing.T) {
	alice := &models.Member{ID: "m-alice", Name: "Alice"}
	bob := &models.Member{ID: "m-bob", Name: "Bob"}

	t.Run("empty group", func(t *testing.T) {
		s := Summarize(nil, nil)
		if s.TotalSpent != 0 {
			t.Errorf("TotalSpent = %v, want 0", s.TotalSpent)
		}
		if len(s.MemberTotals) != 0 {
			t.Errorf("MemberTotals = %v, want empty", s.MemberTotals)
		}
		if len(s.CategoryTotals) != 0 {
			t.Errorf("CategoryTotals = %v, want empty", s.CategoryTotals)
		}
	})

	t.Run("members with no expenses get zero totals", func(t *testing.T) {
		s := Summarize([]*models.Member{alice, bob}, nil)
		if len(s.MemberTotals) != 2 {
			t.Fatalf("MemberTotals count = %d, want 2", len(s.MemberTotals))
		}
		for _, mt := range s.MemberTotals {
			if mt.Amount != 0 {
				t.Errorf("member %s total = %v, want 0", mt.Name, mt.Amount)
			}
		}
	})

	t.Run("sums splits, categories and total", func(t *testing.T) {
		expenses := []*models.Expense{
			{
				Amount:   3000,
				Category: "food",
				Splits: []models.ExpenseSplit{
					{MemberID: "m-alice", Amount: 1500},
					{MemberID: "m-bob", Amount: 1500},
				},
			},
			{
				Amount:   800,
				Category: "transport",
				Splits: []models.ExpenseSplit{
					{MemberID: "m-bob", Amount: 800},
				},
			},
		}

		s := Summarize([]*models.Member{alice, bob}, expenses)

		if s.TotalSpent != 3800 {
			t.Errorf("TotalSpent = %v, want 3800", s.TotalSpent)
		}
		if got := s.CategoryTotals["food"]; got != 3000 {
			t.Errorf("food total = %v, want 3000", got)
		}
		if got := s.CategoryTotals["transport"]; got != 800 {
			t.Errorf("transport total = %v, want 800", got)
		}

		byID := map[string]float64{}
		for _, mt := range s.MemberTotals {
			byID[mt.MemberID] = mt.Amount
		}
		if byID["m-alice"] != 1500 {
			t.Errorf("alice total = %v, want 1500", byID["m-alice"])
		}
		if byID["m-bob"] != 2300 {
			t.Errorf("bob total = %v, want 2300", byID["m-bob"])
		}
	})

	t.Run("paid splits still count toward owed totals", func(t *testing.T) {
		expenses := []*models.Expense{
			{
				Amount:   1000,
				Category: "food",
				Splits: []models.ExpenseSplit{
					{MemberID: "m-alice", Amount: 1000, IsPaid: true},
				},
			},
		}
		s := Summarize([]*models.Member{alice}, expenses)
		if s.MemberTotals[0].Amount != 1000 {
			t.Errorf("alice total = %v, want 1000", s.MemberTotals[0].Amount)
		}
	})

	t.Run("deleted expenses excluded", func(t *testing.T) {
		expenses := []*models.Expense{
			{
				Amount:    1000,
				Category:  "food",
				IsDeleted: true,
				Splits: []models.ExpenseSplit{
					{MemberID: "m-alice", Amount: 1000},
				},
			},
			{
				Amount:   500,
				Category: "food",
				Splits: []models.ExpenseSplit{
					{MemberID: "m-alice", Amount: 500},
				},
			},
		}

		s := Summarize([]*models.Member{alice}, expenses)
		if s.TotalSpent != 500 {
			t.Errorf("TotalSpent = %v, want 500", s.TotalSpent)
		}
		if s.MemberTotals[0].Amount != 500 {
			t.Errorf("alice total = %v, want 500", s.MemberTotals[0].Amount)
		}
		if s.CategoryTotals["food"] != 500 {
			t.Errorf("food total = %v, want 500", s.CategoryTotals["food"])
		}
	})

	t.Run("split totals may exceed expense amount", func(t *testing.T) {
		expenses := []*models.Expense{
			{
				Amount:   100,
				Category: "misc",
				Splits: []models.ExpenseSplit{
					{MemberID: "m-alice", Amount: 90},
					{MemberID: "m-bob", Amount: 90},
				},
			},
		}
		s := Summarize([]*models.Member{alice, bob}, expenses)
		if s.TotalSpent != 100 {
			t.Errorf("TotalSpent = %v, want 100", s.TotalSpent)
		}
	})
}
