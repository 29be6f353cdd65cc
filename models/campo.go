// models/campo.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Data types a configured survey field may carry.
const (
	TipoCampoText    = "text"
	TipoCampoNumber  = "number"
	TipoCampoBoolean = "boolean"
)

// CampoRilievo is an admin-configured extra input on the survey form of one
// phase. It governs rendering and validation of the capture form only; the
// fixed Rilievo columns are not affected, and captured values land in
// Rilievo.Extra keyed by Nome.
type CampoRilievo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Fase         int       `gorm:"not null;index" json:"fase"`
	Nome         string    `gorm:"size:100;not null" json:"nome"`
	Etichetta    string    `gorm:"size:150;not null" json:"etichetta"`
	Tipo         string    `gorm:"size:20;not null;default:text" json:"tipo"`
	Unita        string    `gorm:"size:20" json:"unita,omitempty"`
	Obbligatorio bool      `gorm:"default:false" json:"obbligatorio"`
	Ordine       int       `gorm:"default:0" json:"ordine"`
	Attivo       bool      `gorm:"default:true" json:"attivo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *CampoRilievo) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
