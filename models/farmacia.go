// models/farmacia.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Farmacia is a retail point of sale targeted for a display rollout.
// Coordinates default to zero until the geocoding enrichment fills them in.
type Farmacia struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome           string    `gorm:"size:150;not null" json:"nome"`
	Indirizzo      string    `gorm:"size:200" json:"indirizzo"`
	Citta          string    `gorm:"size:100" json:"citta"`
	Provincia      string    `gorm:"size:50" json:"provincia"`
	CAP            string    `gorm:"size:10;column:cap" json:"cap"`
	Latitudine     float64   `json:"latitudine"`
	Longitudine    float64   `json:"longitudine"`
	Telefono       string    `gorm:"size:30" json:"telefono,omitempty"`
	Referente      string    `gorm:"size:100" json:"referente,omitempty"`
	PlanogrammaURL string    `gorm:"size:500;column:planogramma_url" json:"planogrammaUrl,omitempty"`
	CodiceCliente  string    `gorm:"size:50" json:"codiceCliente,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (f *Farmacia) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// Assegnazione pairs one farmacia with the merchandiser responsible for it.
// At most one row may exist per farmacia; reassignment replaces the old row.
type Assegnazione struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FarmaciaID     uuid.UUID `gorm:"type:uuid;not null;index" json:"farmaciaId"`
	MerchandiserID uuid.UUID `gorm:"type:uuid;not null;index" json:"merchandiserId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (a *Assegnazione) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
