// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the application. Brand users are read-only.
const (
	RoleAdmin        = "admin"
	RoleBrand        = "brand"
	RoleMerchandiser = "merchandiser"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome         string    `gorm:"size:100;not null" json:"nome"`
	Email        string    `gorm:"size:100;not null;index" json:"email"`
	Telefono     string    `gorm:"size:30" json:"telefono,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"passwordHash,omitempty"`
	Role         string    `gorm:"size:20;not null;default:merchandiser" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// CanWrite reports whether the role is allowed to mutate survey data.
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleMerchandiser
}
