package shared

// Role is a user's access level.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
	RoleGuest Role = "Guest"
)

// ParseRole maps a string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGuest:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated identity attached to a call. It is derived
// fresh from the user store on every request and discarded afterwards.
type Principal struct {
	ID   int64
	Role Role
}
