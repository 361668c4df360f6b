// Package operatorctx carries the invoking operator through request contexts.
package operatorctx

import (
	"context"
	"strings"
)

// Role is the administrative role of an operator.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleAgent      Role = "AGENT"
)

// Operator identifies the acting user and their administrative boundary.
// Non-super-administrators are confined to their home commune.
type Operator struct {
	ID      string
	Name    string
	Role    Role
	Commune string
}

// IsSuperAdmin reports whether the operator may act across communes.
func (o Operator) IsSuperAdmin() bool {
	return o.Role == RoleSuperAdmin
}

// ScopedCommune returns the commune the operator is confined to,
// empty for super-administrators.
func (o Operator) ScopedCommune() string {
	if o.IsSuperAdmin() {
		return ""
	}
	return strings.TrimSpace(o.Commune)
}

type operatorContextKey struct{}

// WithOperator stores the operator in the context.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// FromContext returns the operator from context, if set.
func FromContext(ctx context.Context) (Operator, bool) {
	if ctx == nil {
		return Operator{}, false
	}
	op, ok := ctx.Value(operatorContextKey{}).(Operator)
	return op, ok
}
