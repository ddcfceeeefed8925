// Package auth resolves bearer tokens to principals and gates operations
// against their declared role allow-lists.
package auth

import (
	"context"

	"github.com/inkpress/inkpress/internal/shared"
	"github.com/inkpress/inkpress/internal/token"
)

// PrincipalSource looks up the current role of a user id. The lookup must hit
// the user store so that role changes are visible on the very next call.
type PrincipalSource interface {
	FindPrincipal(ctx context.Context, userID int64) (*shared.Principal, error)
}

// Resolver turns a raw bearer token into an authenticated principal.
type Resolver struct {
	codec *token.Codec
	users PrincipalSource
}

// NewResolver constructs a Resolver.
func NewResolver(codec *token.Codec, users PrincipalSource) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve returns the principal for a raw token, or nil when the token is
// absent, invalid, or references no existing user. It runs at most once per
// inbound call; the result is shared with the policy engine and handlers.
func (r *Resolver) Resolve(ctx context.Context, raw string) *shared.Principal {
	if raw == "" {
		return nil
	}
	userID, err := r.codec.Validate(raw)
	if err != nil {
		return nil
	}
	principal, err := r.users.FindPrincipal(ctx, userID)
	if err != nil {
		return nil
	}
	return principal
}
