package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the caller's role as asserted by the upstream identity provider.
// The workflow treats identity as an opaque input and performs no
// authentication itself.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
	RoleSales     Role = "sales"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleHR, RoleSales, RoleAdmin:
		return true
	}
	return false
}

// Internal reports whether the role belongs to internal staff.
func (r Role) Internal() bool {
	switch r {
	case RoleHR, RoleSales, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

type userKeyType struct{}

var userKey userKeyType

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

// MustHaveUser returns the user bound to the context. It panics if the
// identity middleware did not run; handlers are never reachable without it.
func MustHaveUser(ctx context.Context) User {
	u, found := UserFromContext(ctx)
	if !found {
		panic("no user found in context")
	}
	return u
}
