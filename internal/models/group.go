package models

// Role is the coarse permission level of a membership.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Group represents a set of people sharing expenses, such as a household
// or a trip group.
type Group struct {
	// ID is the unique identifier for the group (UUID format, or the
	// fixed id "default" for the seeded local-mode group).
	ID string

	// Name is the display name of the group (e.g., "My Trip").
	Name string

	// OwnerID is the user ID of the group owner.
	OwnerID string

	// IsActive hides archived groups from listings without deleting data.
	IsActive bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership links a user to a group with a role and capability flags.
// The flags refine the coarse role: an owner implicitly holds every
// capability, while admins and members only hold what is set explicitly.
// Unique per (group, user).
type Membership struct {
	GroupID string
	UserID  string
	Role    Role

	// CanAddExpenses allows creating expenses in the group.
	CanAddExpenses bool

	// CanEditAllExpenses allows deleting expenses created by others.
	CanEditAllExpenses bool

	// CanMarkPaid allows an admin to settle splits they have no personal
	// stake in (not their own split, not an expense they paid).
	CanMarkPaid bool
}
