package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// The role set is closed, so the policy ships with the binary instead
// of living in the database.
var policies = [][]string{
	{"admin", "admin_user", "read"},
	{"admin", "admin_user", "create"},
	{"admin", "admin_user", "update"},
	{"admin", "admin_user", "delete"},

	{"admin", "user", "read"},
	{"hr", "user", "read"},
	{"tl", "user", "read"},
	{"nurse", "user", "read"},

	{"admin", "request", "create"},
	{"hr", "request", "create"},
	{"tl", "request", "create"},
	{"nurse", "request", "create"},
	{"employee", "request", "create"},

	{"admin", "request", "read"},
	{"hr", "request", "read"},
	{"tl", "request", "read"},
	{"nurse", "request", "read"},

	{"admin", "request", "review"},
	{"hr", "request", "review"},
	{"tl", "request", "review"},
	{"nurse", "request", "review"},

	{"admin", "notification", "read"},
	{"hr", "notification", "read"},
	{"tl", "notification", "read"},
	{"nurse", "notification", "read"},
	{"employee", "notification", "read"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}
