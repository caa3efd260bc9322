package authz

import (
	"github.com/kervanapp/kervan-backend/internal/models"
)

// ActorFromUser builds the engine snapshot for a persisted user row.
func ActorFromUser(u *models.User) Actor {
	return Actor{
		ID:              u.ID,
		Roles:           rolesFromStrings(u.Roles),
		IsBanned:        u.IsBanned,
		ProfileComplete: u.ProfileComplete(),
	}
}

// TargetFromUser builds the admin-action target snapshot for a user row.
func TargetFromUser(u *models.User) UserTarget {
	return UserTarget{
		ID:    u.ID,
		Roles: rolesFromStrings(u.Roles),
	}
}

func rolesFromStrings(raw []string) []Role {
	roles := make([]Role, len(raw))
	for i, r := range raw {
		roles[i] = Role(r)
	}
	return roles
}
