package authz

import (
	"github.com/google/uuid"
)

// Capability is a named permission request evaluated against an actor and a
// resource snapshot.
type Capability string

const (
	CapView    Capability = "view"
	CapEdit    Capability = "edit"
	CapDelete  Capability = "delete"
	CapCreate  Capability = "create"
	CapProcess Capability = "process"

	// Admin-scope family: a banned actor is denied all of these regardless
	// of role, before any role match.
	CapAdminDashboard  Capability = "admin:dashboard"
	CapAdminLogs       Capability = "admin:logs"
	CapAdminExport     Capability = "admin:export"
	CapBanUser         Capability = "admin:ban_user"
	CapUnbanUser       Capability = "admin:unban_user"
	CapDeleteUser      Capability = "admin:delete_user"
	CapEditRoles       Capability = "admin:edit_roles"
	CapModerateContent Capability = "admin:moderate_content"
)

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Actor is the in-memory snapshot of the requesting identity. Ban status is
// only consulted for the admin-scope family; for ordinary resource access the
// coarse request gate upstream has already rejected banned users.
type Actor struct {
	ID              uuid.UUID
	Roles           []Role
	IsBanned        bool
	ProfileComplete bool
}

func (a Actor) HasRole(role Role) bool {
	return hasRole(a.Roles, role)
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resource snapshots. Callers hydrate these from persisted rows; the engine
// itself never touches storage.

type Trip struct {
	OwnerID uuid.UUID
	Status  string
}

type DeliveryRequest struct {
	OwnerID uuid.UUID
	Status  string
}

type Review struct {
	AuthorID   uuid.UUID
	ReviewedID uuid.UUID
}

type Message struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
}

type Report struct {
	ReporterID uuid.UUID
}

// UserTarget is the snapshot of the user an admin-scope action is aimed at.
type UserTarget struct {
	ID    uuid.UUID
	Roles []Role
}

// Statuses in which a listing is publicly browsable by any actor.
const (
	tripBrowsableStatus    = "active"
	requestBrowsableStatus = "searching"
)

// Decide is the single authorization entrypoint: pure, deterministic and free
// of side effects. Unknown capabilities and unknown resource types are denied.
//
// When resource is a bare uuid.UUID instead of a hydrated snapshot the engine
// cannot verify ownership and deliberately degrades to an ADMIN-only
// decision. Callers that want ownership semantics must pass the snapshot.
func Decide(actor Actor, cap Capability, resource any) bool {
	if isAdminCapability(cap) {
		if actor.IsBanned {
			return false
		}
		return decideAdmin(actor, cap, resource)
	}

	switch res := resource.(type) {
	case Trip:
		return decideListing(actor, cap, res.OwnerID, res.Status == tripBrowsableStatus)
	case DeliveryRequest:
		return decideListing(actor, cap, res.OwnerID, res.Status == requestBrowsableStatus)
	case Review:
		return decideReview(actor, cap, res)
	case Message:
		return decideMessage(actor, cap, res)
	case Report:
		return decideReport(actor, cap, res)
	case uuid.UUID:
		// Degraded bare-id branch: ownership unknown. Only the ownership
		// capabilities are defined for it; anything else stays denied.
		switch cap {
		case CapView, CapEdit, CapDelete:
			return actor.HasRole(RoleAdmin)
		}
		return false
	}
	return false
}

func isAdminCapability(cap Capability) bool {
	switch cap {
	case CapAdminDashboard, CapAdminLogs, CapAdminExport,
		CapBanUser, CapUnbanUser, CapDeleteUser, CapEditRoles,
		CapModerateContent:
		return true
	}
	return false
}

func decideAdmin(actor Actor, cap Capability, resource any) bool {
	switch cap {
	case CapAdminDashboard, CapModerateContent:
		return actor.HasRole(RoleAdmin) || actor.HasRole(RoleModerator)

	case CapAdminLogs, CapAdminExport:
		return actor.HasRole(RoleAdmin)

	case CapBanUser, CapDeleteUser, CapEditRoles:
		target, ok := resource.(UserTarget)
		if !ok || !actor.HasRole(RoleAdmin) {
			return false
		}
		// Admins are never a valid target of another actor, and no actor
		// may target itself.
		if target.ID == actor.ID || hasRole(target.Roles, RoleAdmin) {
			return false
		}
		return true

	case CapUnbanUser:
		// Lifting a ban is not covered by the admin-protection invariant:
		// a wrongly banned admin must stay recoverable.
		if _, ok := resource.(UserTarget); !ok {
			return false
		}
		return actor.HasRole(RoleAdmin)
	}
	return false
}

func decideListing(actor Actor, cap Capability, ownerID uuid.UUID, browsable bool) bool {
	switch cap {
	case CapView:
		return browsable || actor.ID == ownerID || actor.HasRole(RoleAdmin)
	case CapEdit, CapDelete:
		return actor.ID == ownerID || actor.HasRole(RoleAdmin)
	}
	return false
}

func decideReview(actor Actor, cap Capability, res Review) bool {
	switch cap {
	case CapEdit:
		return actor.ID == res.AuthorID || actor.HasRole(RoleAdmin)
	case CapDelete:
		return actor.ID == res.AuthorID || actor.ID == res.ReviewedID || actor.HasRole(RoleAdmin)
	}
	return false
}

func decideMessage(actor Actor, cap Capability, res Message) bool {
	switch cap {
	case CapView:
		return actor.ID == res.SenderID || actor.ID == res.RecipientID || actor.HasRole(RoleAdmin)
	case CapDelete:
		return actor.ID == res.SenderID || actor.HasRole(RoleAdmin)
	}
	return false
}

func decideReport(actor Actor, cap Capability, res Report) bool {
	switch cap {
	case CapCreate:
		return actor.HasRole(RoleAdmin) || actor.ProfileComplete
	case CapView:
		return actor.ID == res.ReporterID || actor.HasRole(RoleAdmin) || actor.HasRole(RoleModerator)
	case CapProcess:
		return actor.HasRole(RoleAdmin) || actor.HasRole(RoleModerator)
	}
	return false
}
