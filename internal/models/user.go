package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names are stored as an unordered set; ADMIN and MODERATOR are
// independent grants, not a hierarchy.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FirstName    string         `gorm:"size:100" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	Phone        string         `gorm:"size:30" json:"phone"`
	Bio          string         `gorm:"size:1000" json:"bio"`
	Roles        []string       `gorm:"type:jsonb;serializer:json;default:'[\"USER\"]'" json:"roles"`
	IsBanned     bool           `gorm:"default:false;index" json:"is_banned"`
	BannedAt     *time.Time     `json:"banned_at,omitempty"`
	BanReason    string         `gorm:"size:500" json:"ban_reason,omitempty"`
	BannedByID   *uuid.UUID     `gorm:"type:uuid" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ProfileComplete reports whether the required profile fields are filled in.
// Filing reports is gated on a complete profile.
func (u *User) ProfileComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Phone != ""
}
