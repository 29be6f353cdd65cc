// models/registrazione.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration decision states. Approved and rejected are terminal.
const (
	RegistrazionePending  = "pending"
	RegistrazioneApproved = "approved"
	RegistrazioneRejected = "rejected"
)

// Registrazione is a self-service merchandiser application awaiting an
// admin decision. Approval spawns a User with role merchandiser.
type Registrazione struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nome         string     `gorm:"size:100;not null" json:"nome"`
	Email        string     `gorm:"size:100;not null" json:"email"`
	Telefono     string     `gorm:"size:30" json:"telefono,omitempty"`
	PasswordHash string     `gorm:"size:255;not null" json:"passwordHash,omitempty"`
	Stato        string     `gorm:"size:20;not null;default:pending" json:"stato"`
	DecisaIl     *time.Time `gorm:"column:decisa_il" json:"decisaIl,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (rg *Registrazione) BeforeCreate(tx *gorm.DB) (err error) {
	if rg.ID == uuid.Nil {
		rg.ID = uuid.New()
	}
	return
}
