package authz

import (
	"errors"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrForbidden is returned whenever no rule grants the requested action.
var ErrForbidden = errors.New("access denied: insufficient permissions")

// Actor is the authenticated caller. For staff tokens ID is the User
// document id; for client tokens it is the Client document id and Role is
// domain.RoleClient.
type Actor struct {
	ID   primitive.ObjectID
	Role domain.Role
}

func (a Actor) IsAdminTier() bool {
	return a.Role.IsAdminTier()
}

// Target carries the ownership facts of the resource being acted on. Zero
// fields simply never match an ownership predicate.
type Target struct {
	UserID   primitive.ObjectID // staff user the resource belongs to
	CoachID  primitive.ObjectID // assigned coach of the client/session
	ClientID primitive.ObjectID // owning Client document
}

// Action names one operation of the permission matrix.
type Action string

const (
	UserList    Action = "user.list"
	UserRead    Action = "user.read"
	UserCreate  Action = "user.create"
	UserUpdate  Action = "user.update"
	UserDelete  Action = "user.delete"
	UserDaysOff Action = "user.days-off"

	ClientList             Action = "client.list"
	ClientRead             Action = "client.read"
	ClientCreate           Action = "client.create"
	ClientUpdate           Action = "client.update"
	ClientDelete           Action = "client.delete"
	ClientSubscriptionRead Action = "client.subscription.read"
	ClientSessionsRead     Action = "client.sessions.read"

	SessionList     Action = "session.list"
	SessionRead     Action = "session.read"
	SessionCreate   Action = "session.create"
	SessionUpdate   Action = "session.update"
	SessionDelete   Action = "session.delete"
	SessionComplete Action = "session.complete"

	PlanList   Action = "plan.list"
	PlanRead   Action = "plan.read"
	PlanCreate Action = "plan.create"
	PlanUpdate Action = "plan.update"
	PlanDelete Action = "plan.delete"

	StatisticsRead Action = "statistics.read"
)

// Ownership is a narrower allow checked when the actor's role alone is not
// enough. Predicates never match against zero-valued target ids.
type Ownership func(a Actor, t Target) bool

// Self matches a staff member acting on their own User record.
func Self(a Actor, t Target) bool {
	return a.Role.IsStaff() && !t.UserID.IsZero() && a.ID == t.UserID
}

// AssignedCoach matches a coach acting on a resource they are assigned to.
func AssignedCoach(a Actor, t Target) bool {
	return a.Role == domain.RoleCoach && !t.CoachID.IsZero() && a.ID == t.CoachID
}

// OwnClient matches a client acting on their own record or session.
func OwnClient(a Actor, t Target) bool {
	return a.Role == domain.RoleClient && !t.ClientID.IsZero() && a.ID == t.ClientID
}

// rule pairs the roles allowed outright with the ownership predicates that
// may grant a narrower allow. Absence of both is a deny.
type rule struct {
	roles  []domain.Role
	owners []Ownership
}

var (
	adminTier = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}
	allRoles  = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleCoach, domain.RoleClient}
)

// rules is the single authoritative permission table. Route handlers and
// services all consult it through Authorize; nothing re-implements these
// checks inline.
var rules = map[Action]rule{
	UserList:    {roles: adminTier},
	UserRead:    {roles: adminTier, owners: []Ownership{Self}},
	UserCreate:  {roles: adminTier},
	UserUpdate:  {roles: adminTier, owners: []Ownership{Self}},
	UserDelete:  {roles: adminTier},
	UserDaysOff: {roles: adminTier, owners: []Ownership{Self}},

	ClientList:             {roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleCoach}},
	ClientRead:             {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},
	ClientCreate:           {roles: adminTier},
	ClientUpdate:           {roles: adminTier},
	ClientDelete:           {roles: adminTier},
	ClientSubscriptionRead: {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},
	ClientSessionsRead:     {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},

	SessionList:     {roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleCoach}},
	SessionRead:     {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},
	SessionCreate:   {roles: adminTier},
	SessionUpdate:   {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},
	SessionDelete:   {roles: adminTier},
	SessionComplete: {roles: adminTier, owners: []Ownership{AssignedCoach, OwnClient}},

	PlanList:   {roles: allRoles},
	PlanRead:   {roles: allRoles},
	PlanCreate: {roles: adminTier},
	PlanUpdate: {roles: adminTier},
	PlanDelete: {roles: adminTier},

	StatisticsRead: {roles: []domain.Role{domain.RoleSuperAdmin}},
}

// Authorize decides whether the actor may perform the action on the target.
// The coarse role gate is checked first, then the ownership predicates.
// Anything not explicitly allowed is denied.
func Authorize(a Actor, action Action, t Target) error {
	// Self-deletion is vetoed for every role.
	if action == UserDelete && !t.UserID.IsZero() && a.ID == t.UserID {
		return ErrForbidden
	}

	r, ok := rules[action]
	if !ok {
		return ErrForbidden
	}
	for _, role := range r.roles {
		if a.Role == role {
			return nil
		}
	}
	for _, owns := range r.owners {
		if owns(a, t) {
			return nil
		}
	}
	return ErrForbidden
}

// CanAssignRole reports whether the actor may create a user with, or change
// a user's role to, the given role. Only the super admin may mint admins or
// change roles at all.
func CanAssignRole(actor Actor, role domain.Role) bool {
	if !role.IsStaff() {
		return false
	}
	if role == domain.RoleAdmin || role == domain.RoleSuperAdmin {
		return actor.Role == domain.RoleSuperAdmin
	}
	return actor.IsAdminTier()
}

// CanChangeRole reports whether the actor may change an existing user's
// role. Role mutation is reserved for the super admin.
func CanChangeRole(actor Actor) bool {
	return actor.Role == domain.RoleSuperAdmin
}
