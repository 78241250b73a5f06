// Package authorize decides whether an identity may open a named view,
// and where to send it when it may not. The allow table is held in a
// casbin enforcer built from an in-memory model; policies are fixed at
// construction.
package authorize

import (
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Identity is the authenticated subject. A nil *Identity means no one
// is logged in.
type Identity struct {
	Role Role
}

// Decision is the outcome of an access check. When Allowed is false,
// Redirect names the view to send the caller to instead.
type Decision struct {
	Allowed  bool
	Redirect View
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

func New() (*Authorizer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	for _, p := range defaultPolicies() {
		if _, err := e.AddPolicy(string(p.Role), string(p.View)); err != nil {
			return nil, fmt.Errorf("seed policy %s/%s: %w", p.Role, p.View, err)
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Evaluate gates a protected view. It must be called before the view
// is rendered or acted on. Unauthenticated callers are sent to login;
// authenticated callers lacking the role are sent to their default
// view (Patient to the patient portal, anyone else to the dashboard).
func (a *Authorizer) Evaluate(identity *Identity, view View) Decision {
	if identity == nil {
		return Decision{Redirect: ViewLogin}
	}

	ok, err := a.enforcer.Enforce(string(identity.Role), string(view))
	if err != nil || !ok {
		return Decision{Redirect: defaultView(identity.Role)}
	}
	return Decision{Allowed: true}
}

// Require folds Evaluate into an error for callers that only gate an
// action and have no navigation to perform.
func (a *Authorizer) Require(identity *Identity, view View) error {
	if dec := a.Evaluate(identity, view); !dec.Allowed {
		return fmt.Errorf("access denied: go to %q", dec.Redirect)
	}
	return nil
}

// EvaluateRoles is the requiredRoles form of the check: an empty role
// list admits any authenticated identity. It shares the redirect rules
// with Evaluate.
func EvaluateRoles(identity *Identity, requiredRoles []Role) Decision {
	if identity == nil {
		return Decision{Redirect: ViewLogin}
	}
	if len(requiredRoles) == 0 {
		return Decision{Allowed: true}
	}
	for _, r := range requiredRoles {
		if identity.Role == r {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: defaultView(identity.Role)}
}

func defaultView(role Role) View {
	if role == RolePatient {
		return ViewPatientView
	}
	return ViewDashboard
}
