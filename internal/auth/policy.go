package auth

import "github.com/inkpress/inkpress/internal/shared"

// RoleAny marks an operation as open to any authenticated principal,
// regardless of role. It only ever appears in descriptors.
const RoleAny shared.Role = "Any"

// Descriptor is the static authorization metadata for one operation.
// Operations without a descriptor are public.
type Descriptor struct {
	Name         string
	Roles        []shared.Role
	RequiresAuth bool
}

// Authorize decides admit/deny for a resolved principal. A nil descriptor
// admits unconditionally; a guarded operation with no principal is an
// authentication failure; otherwise the principal's role must be in the
// allow-list (or the list must contain RoleAny). It is evaluated exactly
// once per call, before any service code runs.
func Authorize(desc *Descriptor, principal *shared.Principal) error {
	if desc == nil {
		return nil
	}
	if principal == nil {
		return shared.ErrUnauthenticated
	}
	for _, role := range desc.Roles {
		if role == RoleAny || role == principal.Role {
			return nil
		}
	}
	return shared.ErrPermissionDenied
}
