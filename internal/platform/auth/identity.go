// Package auth authenticates back-office staff from signed bearer tokens and
// enforces role boundaries on routes.
package auth

import (
	"context"

	"github.com/ida-management/backoffice/internal/domain"
)

// Identity captures the authenticated staff principal.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Role    domain.StaffRole
}

// roleRank orders roles by capability; higher values grant more access.
var roleRank = map[domain.StaffRole]int{
	domain.StaffRoleViewer:   1,
	domain.StaffRoleOperator: 2,
	domain.StaffRoleAdmin:    3,
}

// HasRole reports whether the identity's role grants at least the given role.
func (i *Identity) HasRole(role domain.StaffRole) bool {
	if i == nil {
		return false
	}
	need, ok := roleRank[role]
	if !ok {
		return false
	}
	return roleRank[i.Role] >= need
}

type contextKey string

const identityContextKey contextKey = "github.com/ida-management/backoffice/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
