package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/service"
)

type splitRequest struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
}

type createExpenseRequest struct {
	Description    string         `json:"description"`
	Amount         float64        `json:"amount"`
	Currency       string         `json:"currency"`
	Category       string         `json:"category"`
	PaidByMemberID string         `json:"paidByMemberId"`
	ExpenseDate    string         `json:"expenseDate"`
	Splits         []splitRequest `json:"splits"`
}

type splitResponse struct {
	ID           string  `json:"id"`
	ExpenseID    string  `json:"expenseId"`
	MemberID     string  `json:"memberId"`
	Amount       float64 `json:"amount"`
	IsPaid       bool    `json:"isPaid"`
	PaidAt       int64   `json:"paidAt,omitempty"`
	MarkedPaidBy string  `json:"markedPaidBy,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type expenseListResponse struct {
	Expenses []expenseResponse `json:"expenses"`
}

type expenseCreatedResponse struct {
	Success   bool   `json:"success"`
	ExpenseID string `json:"expenseId"`
}

type expenseResponse struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"groupId"`
	Description    string          `json:"description"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Category       string          `json:"category"`
	PaidByMemberID string          `json:"paidByMemberId"`
	ExpenseDate    string          `json:"expenseDate"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      int64           `json:"createdAt"`
	Splits         []splitResponse `json:"splits"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	out := expenseResponse{
		ID:             e.ID,
		GroupID:        e.GroupID,
		Description:    e.Description,
		Amount:         e.Amount,
		Currency:       e.Currency,
		Category:       e.Category,
		PaidByMemberID: e.PaidByMemberID,
		ExpenseDate:    e.ExpenseDate,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		Splits:         make([]splitResponse, 0, len(e.Splits)),
	}
	for _, s := range e.Splits {
		out.Splits = append(out.Splits, splitResponse{
			ID:           s.ID,
			ExpenseID:    s.ExpenseID,
			MemberID:     s.MemberID,
			Amount:       s.Amount,
			IsPaid:       s.IsPaid,
			PaidAt:       s.PaidAt,
			MarkedPaidBy: s.MarkedPaidBy,
			Notes:        s.Notes,
		})
	}
	return out
}

func (h *Handlers) listExpenses(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	expenses, err := h.expenses.List(r.Context(), user, groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, expenseListResponse{Expenses: out})
}

func (h *Handlers) createExpense(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateExpenseInput{
		GroupID:        groupID,
		Description:    req.Description,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Category:       req.Category,
		PaidByMemberID: req.PaidByMemberID,
		ExpenseDate:    req.ExpenseDate,
	}
	for _, s := range req.Splits {
		in.Splits = append(in.Splits, service.SplitInput{MemberID: s.MemberID, Amount: s.Amount})
	}

	expense, err := h.expenses.Create(r.Context(), user, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseCreatedResponse{Success: true, ExpenseID: expense.ID})
}

func (h *Handlers) deleteExpense(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	expenseID := chi.URLParam(r, "expenseID")

	if err := h.expenses.Delete(r.Context(), user, expenseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
