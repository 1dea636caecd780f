package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_Enforce(t *testing.T) {
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)
	svc := NewService(enforcer)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"admin manages users", "admin", "admin_user", "create", true},
		{"hr cannot manage users", "hr", "admin_user", "create", false},
		{"hr cannot delete users", "hr", "admin_user", "delete", false},

		{"employee submits requests", "employee", "request", "create", true},
		{"employee cannot list requests", "employee", "request", "read", false},
		{"employee cannot review", "employee", "request", "review", false},

		{"tl reviews requests", "tl", "request", "review", true},
		{"nurse reads requests", "nurse", "request", "read", true},
		{"admin reviews requests", "admin", "request", "review", true},

		{"everyone reads own notifications", "employee", "notification", "read", true},
		{"unknown role denied", "contractor", "request", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
