// models/rilievo.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// The three fixed rollout phases.
const (
	FaseRilievoMisure = 1 // measurement visit
	FaseMontaggio     = 2 // display installation
	FaseCaricamento   = 3 // product stocking
)

// Rilievo is one phase-scoped survey for one farmacia. The (farmacia, fase)
// pair is the logical key: a resubmission replaces the previous record in
// full, so fields omitted the second time do not survive from the first.
type Rilievo struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	FarmaciaID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"farmaciaId"`
	MerchandiserID    uuid.UUID                   `gorm:"type:uuid;index" json:"merchandiserId"`
	Fase              int                         `gorm:"not null" json:"fase"`
	LarghezzaCm       *float64                    `json:"larghezzaCm,omitempty"`
	AltezzaCm         *float64                    `json:"altezzaCm,omitempty"`
	ProfonditaCm      *float64                    `json:"profonditaCm,omitempty"`
	MontaggioOk       *bool                       `json:"montaggioOk,omitempty"`
	ProdottiCaricati  *bool                       `json:"prodottiCaricati,omitempty"`
	Foto              datatypes.JSONSlice[string] `json:"foto,omitempty"`
	Note              string                      `gorm:"type:text" json:"note,omitempty"`
	Extra             datatypes.JSONMap           `json:"extra,omitempty"`
	Completato        bool                        `gorm:"default:false" json:"completato"`
	DataCompletamento *time.Time                  `gorm:"column:data_completamento" json:"dataCompletamento,omitempty"`
	AttesaMateriali   bool                        `gorm:"default:false" json:"attesaMateriali"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func (rv *Rilievo) BeforeCreate(tx *gorm.DB) (err error) {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	return
}
