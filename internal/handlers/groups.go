package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"budgetsplitter/internal/middleware"
	"budgetsplitter/internal/models"
)

type groupResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt int64  `json:"createdAt"`
}

type memberResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	UserID    string `json:"userId,omitempty"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type addMemberRequest struct {
	Name string `json:"name"`
}

// List and single-item envelopes, matching the shapes clients consume.
type groupListResponse struct {
	Groups []groupResponse `json:"groups"`
}

type memberListResponse struct {
	Members []memberResponse `json:"members"`
}

type memberCreatedResponse struct {
	Member memberResponse `json:"member"`
}

func toMemberResponse(m *models.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handlers) listGroups(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())

	groups, err := h.groups.ListGroups(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID, CreatedAt: g.CreatedAt})
	}
	writeJSON(w, http.StatusOK, groupListResponse{Groups: out})
}

func (h *Handlers) listMembers(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.groups.ListMembers(r.Context(), user, groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, memberListResponse{Members: out})
}

func (h *Handlers) addMember(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.groups.AddMember(r.Context(), user, groupID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberCreatedResponse{Member: toMemberResponse(member)})
}

func (h *Handlers) removeMember(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	memberID := chi.URLParam(r, "memberID")

	if err := h.groups.RemoveMember(r.Context(), user, memberID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handlers) resetGroup(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.groups.ResetGroup(r.Context(), user, groupID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Reset complete"})
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetIdentity(r.Context())
	groupID, err := h.groupID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.groups.Summary(r.Context(), user, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
