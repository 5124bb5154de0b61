// Package calculator derives balance summaries from ledger reads.
//
// Summaries are computed fully on every query; nothing here is stored or
// incrementally maintained.
package calculator

import (
	"budgetsplitter/internal/models"
)

// MemberTotal is the sum of split amounts owed by one member across all
// non-deleted expenses, regardless of paid status.
type MemberTotal struct {
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
}

// Summary holds the on-demand balance view of a group.
type Summary struct {
	TotalSpent     float64            `json:"totalSpent"`
	MemberTotals   []MemberTotal      `json:"memberTotals"`
	CategoryTotals map[string]float64 `json:"categoryTotals"`
}

// Summarize computes per-member owed totals, per-category spend totals and
// the overall spend from the group's members and non-deleted expenses.
// Members with no splits appear with a zero total, in the order given
// (the store lists members by name).
func Summarize(members []*models.Member, expenses []*models.Expense) Summary {
	owedByMember := make(map[string]float64, len(members))
	categoryTotals := make(map[string]float64)
	var totalSpent float64

	for _, expense := range expenses {
		if expense.IsDeleted {
			continue
		}
		totalSpent += expense.Amount
		categoryTotals[expense.Category] += expense.Amount
		for _, split := range expense.Splits {
			owedByMember[split.MemberID] += split.Amount
		}
	}

	memberTotals := make([]MemberTotal, len(members))
	for i, member := range members {
		memberTotals[i] = MemberTotal{
			MemberID: member.ID,
			Name:     member.Name,
			Amount:   owedByMember[member.ID],
		}
	}

	return Summary{
		TotalSpent:     totalSpent,
		MemberTotals:   memberTotals,
		CategoryTotals: categoryTotals,
	}
}
