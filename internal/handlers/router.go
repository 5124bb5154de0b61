package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/service"
)

// Handlers holds the services behind the REST surface.
//
// defaultGroupID, when set, resolves requests that omit the groupId query
// parameter. Local mode sets it to the seeded group so clients never need
// to know about groups at all.
type Handlers struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	payments *service.PaymentService

	mode           string
	defaultGroupID string
}

// New creates the handler set. auth may be nil in local mode, which
// disables the /auth routes.
func New(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, payments *service.PaymentService, mode, defaultGroupID string) *Handlers {
	return &Handlers{
		auth:           authSvc,
		groups:         groups,
		expenses:       expenses,
		payments:       payments,
		mode:           mode,
		defaultGroupID: defaultGroupID,
	}
}

// Router assembles the full route tree. identity wraps the /api and
// /auth/me|logout routes: in multi mode it resolves bearer tokens, in
// local mode it injects the seeded identity.
func (h *Handlers) Router(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	if h.auth != nil {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
	}

	r.Group(func(r chi.Router) {
		for _, m := range mw {
			r.Use(m)
		}

		if h.auth != nil {
			r.Post("/auth/logout", h.logout)
			r.Get("/auth/me", h.me)
		}

		r.Get("/api/groups", h.listGroups)
		r.Get("/api/members", h.listMembers)
		r.Post("/api/members", h.addMember)
		r.Delete("/api/members/{memberID}", h.removeMember)
		r.Post("/api/members/reset", h.resetGroup)
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.createExpense)
		r.Delete("/api/expenses/{expenseID}", h.deleteExpense)
		r.Patch("/api/expense-splits/{splitID}/payment", h.setPayment)
		r.Get("/api/expense-splits/{splitID}/history", h.paymentHistory)
		r.Get("/api/summary", h.summary)
	})

	return r
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": h.mode})
}

// groupID resolves the target group from the groupId query parameter,
// falling back to the configured default group.
func (h *Handlers) groupID(r *http.Request) (string, error) {
	if id := r.URL.Query().Get("groupId"); id != "" {
		return id, nil
	}
	if h.defaultGroupID != "" {
		return h.defaultGroupID, nil
	}
	return "", &service.ValidationError{Field: "groupId", Reason: "required"}
}
