package auth

import (
	"github.com/frahmantamala/employee-management/internal"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
)

type Action string

const (
	ActionLeaveDecide          Action = "leave.decide"
	ActionRequestManagerDecide Action = "request.manager_decide"
	ActionRequestAdminDecide   Action = "request.admin_decide"
	ActionRequestEdit          Action = "request.edit"
	ActionRequestDelete        Action = "request.delete"
)

type Decision int

const (
	Allow Decision = iota
	Forbidden
	InvalidState
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbidden:
		return "forbidden"
	case InvalidState:
		return "invalid_state"
	}
	return "unknown"
}

// Rule grants Actors the Action on a subject whose owner role is in
// OwnerRoles and whose state is in States. Empty OwnerRoles or States match
// anything.
type Rule struct {
	Action     Action
	Actors     []internal.Role
	OwnerRoles []internal.Role
	States     []string
	OwnerOnly  bool
	AllowSelf  bool
}

// Subject describes the record an action targets.
type Subject struct {
	OwnerID   int64
	OwnerRole internal.Role
	State     string
}

// Visibility describes which records a role may list. All wins over the
// other fields; otherwise a record is visible when it is the viewer's own
// (Own) or its owner has one of OwnerRoles.
type Visibility struct {
	All        bool
	Own        bool
	OwnerRoles []internal.Role
}

func (v Visibility) Visible(viewerID, ownerID int64, ownerRole internal.Role) bool {
	if v.All {
		return true
	}
	if v.Own && viewerID == ownerID {
		return true
	}
	return internal.RoleIn(ownerRole, v.OwnerRoles...)
}

type Policy struct {
	rules        []Rule
	leaveScope   map[internal.Role]Visibility
	requestScope map[internal.Role]Visibility
}

var (
	administrators = []internal.Role{internal.RoleAdmin, internal.RoleSuperuser}
	everyone       = Visibility{All: true}
)

// DefaultPolicy is the authorization table of the leave and request workflows.
func DefaultPolicy() *Policy {
	rules := []Rule{
		{Action: ActionLeaveDecide, Actors: administrators, States: []string{leaveDatamodel.StatusPending}},
		{Action: ActionLeaveDecide, Actors: []internal.Role{internal.RoleHR}, OwnerRoles: []internal.Role{internal.RoleEmployee, internal.RoleManager}, States: []string{leaveDatamodel.StatusPending}},
		{Action: ActionLeaveDecide, Actors: []internal.Role{internal.RoleManager}, OwnerRoles: []internal.Role{internal.RoleEmployee}, States: []string{leaveDatamodel.StatusPending}},

		{Action: ActionRequestManagerDecide, Actors: []internal.Role{internal.RoleManager}, States: []string{requestDatamodel.StatusPendingManager}},
		{Action: ActionRequestAdminDecide, Actors: administrators, States: []string{requestDatamodel.StatusPendingAdmin}, AllowSelf: true},
	}

	for _, action := range []Action{ActionRequestEdit, ActionRequestDelete} {
		rules = append(rules,
			Rule{Action: action, Actors: administrators, AllowSelf: true},
			Rule{Action: action, Actors: []internal.Role{internal.RoleEmployee}, States: []string{requestDatamodel.StatusPendingManager}, OwnerOnly: true, AllowSelf: true},
			Rule{Action: action, Actors: []internal.Role{internal.RoleManager}, States: []string{requestDatamodel.StatusPendingAdmin}, OwnerOnly: true, AllowSelf: true},
		)
	}

	return &Policy{
		rules: rules,
		leaveScope: map[internal.Role]Visibility{
			internal.RoleEmployee:  {Own: true},
			internal.RoleManager:   {OwnerRoles: []internal.Role{internal.RoleEmployee, internal.RoleManager}},
			internal.RoleHR:        everyone,
			internal.RoleAdmin:     everyone,
			internal.RoleSuperuser: everyone,
		},
		requestScope: map[internal.Role]Visibility{
			internal.RoleEmployee:  {Own: true},
			internal.RoleManager:   {Own: true, OwnerRoles: []internal.Role{internal.RoleEmployee}},
			internal.RoleHR:        everyone,
			internal.RoleAdmin:     everyone,
			internal.RoleSuperuser: everyone,
		},
	}
}

// Evaluate decides whether actor may perform action on subject. Identity
// conditions are checked before state, so an actor who could never act gets
// Forbidden and one who could act in another state gets InvalidState.
func (p *Policy) Evaluate(action Action, actor *internal.User, subject Subject) Decision {
	if actor == nil {
		return Forbidden
	}

	decision := Forbidden
	for _, rule := range p.rules {
		if rule.Action != action || !internal.RoleIn(actor.Role, rule.Actors...) {
			continue
		}
		if !rule.identityMatches(actor, subject) {
			continue
		}
		if rule.stateMatches(subject.State) {
			return Allow
		}
		decision = InvalidState
	}
	return decision
}

// Allowed reports whether the actor's role appears in any rule for action.
func (p *Policy) Allowed(action Action, role internal.Role) bool {
	for _, rule := range p.rules {
		if rule.Action == action && internal.RoleIn(role, rule.Actors...) {
			return true
		}
	}
	return false
}

// LeaveScope returns the leave records visible to role. Unknown roles see only their own.
func (p *Policy) LeaveScope(role internal.Role) Visibility {
	if v, ok := p.leaveScope[role]; ok {
		return v
	}
	return Visibility{Own: true}
}

// RequestScope returns the request records visible to role.
func (p *Policy) RequestScope(role internal.Role) Visibility {
	if v, ok := p.requestScope[role]; ok {
		return v
	}
	return Visibility{Own: true}
}

func (r Rule) identityMatches(actor *internal.User, subject Subject) bool {
	isOwner := actor.ID == subject.OwnerID
	if isOwner && !r.AllowSelf {
		return false
	}
	if r.OwnerOnly && !isOwner {
		return false
	}
	if len(r.OwnerRoles) > 0 && !internal.RoleIn(subject.OwnerRole, r.OwnerRoles...) {
		return false
	}
	return true
}

func (r Rule) stateMatches(state string) bool {
	if len(r.States) == 0 {
		return true
	}
	for _, s := range r.States {
		if s == state {
			return true
		}
	}
	return false
}
