package domain

// Role is the single role label carried by an identity.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)

// Identity is the resolved caller: a unique username plus one role.
// Immutable once resolved from a token or a credential check.
type Identity struct {
	Subject string
	Role    Role
}
