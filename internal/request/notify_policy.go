package request

import (
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/user"
)

// notifyRolesByType maps a request type to the reviewer roles that get
// notified on submission. Admins are always added on top.
var notifyRolesByType = map[string][]string{
	TypeLeave:             {user.RoleTL},
	TypeSickLeave:         {user.RoleTL},
	TypeMedicalFileUpdate: {user.RoleNurse},
	TypePayslip:           {user.RoleHR},
	TypeWorkCertificate:   {user.RoleHR},
	TypeComplaint:         {user.RoleHR},
}

// NotifyRolesFor resolves the role fan-out for a request type. Unmapped
// types are logged and still reach admins.
func NotifyRolesFor(requestType string, logger *zap.Logger) []string {
	roles, ok := notifyRolesByType[requestType]
	if !ok {
		logger.Warn("no notification role mapping for request type",
			zap.String("request_type", requestType),
		)
	}

	out := make([]string, 0, len(roles)+1)
	out = append(out, roles...)
	return append(out, user.RoleAdmin)
}

// visibleTypesByRole gates listing: each reviewer role sees only its own
// request types; admin sees everything.
var visibleTypesByRole = map[string][]string{
	user.RoleHR:    {TypeWorkCertificate, TypePayslip, TypeComplaint},
	user.RoleTL:    {TypeLeave, TypeSickLeave},
	user.RoleNurse: {TypeMedicalFileUpdate},
}

// VisibleTypesFor returns the types a role may list. The second result is
// false when the role has no listing access at all. A nil slice with true
// means unrestricted (admin).
func VisibleTypesFor(role string) ([]string, bool) {
	if role == user.RoleAdmin {
		return nil, true
	}
	types, ok := visibleTypesByRole[role]
	return types, ok
}
