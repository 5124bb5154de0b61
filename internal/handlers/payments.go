package handlers

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/models"
	"budgetsplitter/internal/service"
)

type setPaymentRequest struct {
	IsPaid *bool  `json:"isPaid"`
	Reason string `json:"reason"`
}

type historyListResponse struct {
	History []historyEntryResponse `json:"history"`
}

type historyEntryResponse struct {
	ID              string `json:"id"`
	SplitID         string `json:"splitId"`
	Action          string `json:"action"`
	PerformedBy     string `json:"performedBy"`
	PerformedByName string `json:"performedByName,omitempty"`
	Reason          string `json:"reason,omitempty"`
	IPAddress       string `json:"ipAddress,omitempty"`
	DeviceInfo      string `json:"deviceInfo,omitempty"`
	PerformedAt     int64  `json:"performedAt"`
}

func toHistoryResponse(e *models.PaymentHistoryEntry) historyEntryResponse {
	return historyEntryResponse{
		ID:              e.ID,
		SplitID:         e.SplitID,
		Action:          string(e.Action),
		PerformedBy:     e.PerformedBy,
		PerformedByName: e.PerformedByName,
		Reason:          e.Reason,
		IPAddress:       e.IPAddress,
		DeviceInfo:      e.DeviceInfo,
		PerformedAt:     e.PerformedAt,
	}
}

func (h *Handlers) setPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	splitID := chi.URLParam(r, "splitID")

	var req setPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IsPaid == nil {
		writeError(w, &service.ValidationError{Field: "isPaid", Reason: "required"})
		return
	}

	origin := service.RequestOrigin{
		IPAddress:  clientIP(r),
		DeviceInfo: r.UserAgent(),
	}
	if err := h.payments.SetPaid(r.Context(), user, splitID, *req.IsPaid, req.Reason, origin); err != nil {
		writeError(w, err)
		return
	}

	message := "Marked unpaid"
	if *req.IsPaid {
		message = "Marked paid"
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: message})
}

// clientIP returns the bare client address for audit rows. RemoteAddr is
// ip:port on direct connections but already a plain IP when the RealIP
// middleware rewrote it from a proxy header.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (h *Handlers) paymentHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	splitID := chi.URLParam(r, "splitID")

	entries, err := h.payments.History(r.Context(), user, splitID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryResponse(e))
	}
	writeJSON(w, http.StatusOK, historyListResponse{History: out})
}
