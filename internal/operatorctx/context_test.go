package operatorctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopedCommune(t *testing.T) {
	agent := Operator{Role: RoleAgent, Commune: "Niamey I"}
	assert.Equal(t, "Niamey I", agent.ScopedCommune())

	admin := Operator{Role: RoleAdmin, Commune: " Niamey II "}
	assert.Equal(t, "Niamey II", admin.ScopedCommune())

	super := Operator{Role: RoleSuperAdmin, Commune: "Niamey I"}
	assert.Empty(t, super.ScopedCommune())
}

func TestContextRoundTrip(t *testing.T) {
	op := Operator{ID: "7", Name: "Agent", Role: RoleAgent, Commune: "Niamey I"}
	ctx := WithOperator(context.Background(), op)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, op, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
