package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/user"
)

func TestNotifyRolesFor(t *testing.T) {
	logger := zap.NewNop()

	t.Run("leave and sick leave go to team leads", func(t *testing.T) {
		for _, rt := range []string{TypeLeave, TypeSickLeave} {
			roles := NotifyRolesFor(rt, logger)
			assert.Contains(t, roles, user.RoleTL)
			assert.Contains(t, roles, user.RoleAdmin)
			assert.NotContains(t, roles, user.RoleHR)
		}
	})

	t.Run("medical file updates go to the nurse", func(t *testing.T) {
		roles := NotifyRolesFor(TypeMedicalFileUpdate, logger)
		assert.Contains(t, roles, user.RoleNurse)
		assert.Contains(t, roles, user.RoleAdmin)
	})

	t.Run("hr handles payslips certificates and complaints", func(t *testing.T) {
		for _, rt := range []string{TypePayslip, TypeWorkCertificate, TypeComplaint} {
			roles := NotifyRolesFor(rt, logger)
			assert.Contains(t, roles, user.RoleHR)
			assert.Contains(t, roles, user.RoleAdmin)
		}
	})

	t.Run("unmapped type still reaches admins", func(t *testing.T) {
		roles := NotifyRolesFor("unknownType", logger)
		assert.Equal(t, []string{user.RoleAdmin}, roles)
	})
}

func TestVisibleTypesFor(t *testing.T) {
	t.Run("admin sees everything", func(t *testing.T) {
		types, ok := VisibleTypesFor(user.RoleAdmin)
		assert.True(t, ok)
		assert.Nil(t, types)
	})

	t.Run("hr scope", func(t *testing.T) {
		types, ok := VisibleTypesFor(user.RoleHR)
		assert.True(t, ok)
		assert.ElementsMatch(t, []string{TypeWorkCertificate, TypePayslip, TypeComplaint}, types)
	})

	t.Run("tl scope", func(t *testing.T) {
		types, ok := VisibleTypesFor(user.RoleTL)
		assert.True(t, ok)
		assert.ElementsMatch(t, []string{TypeLeave, TypeSickLeave}, types)
	})

	t.Run("nurse scope", func(t *testing.T) {
		types, ok := VisibleTypesFor(user.RoleNurse)
		assert.True(t, ok)
		assert.Equal(t, []string{TypeMedicalFileUpdate}, types)
	})

	t.Run("employee cannot list", func(t *testing.T) {
		_, ok := VisibleTypesFor(user.RoleEmployee)
		assert.False(t, ok)
	})
}
