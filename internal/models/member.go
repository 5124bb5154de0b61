package models

// Member is a participant within a group. A member may be linked to a
// registered identity through UserID, but does not have to be: local-mode
// participants and not-yet-registered trip companions are plain names.
type Member struct {
	ID      string
	GroupID string

	// UserID is the linked identity, empty if the member never registered.
	UserID string

	Name      string
	CreatedAt int64
}
