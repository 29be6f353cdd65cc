// store/store.go
package store

import (
	"errors"

	"github.com/google/uuid"
	"p9e.in/farmatrack/models"
)

// Mode identifies which persistence backend the process runs on. It is
// decided once at start-up from configuration and never switched.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeHosted Mode = "hosted"
)

var ErrNotFound = errors.New("store: record not found")

// Store is the capability set each persistence backend provides. Partial
// updates carry only the caller-supplied fields, keyed by the entity's JSON
// field names; each backend translates to its own representation.
type Store interface {
	Mode() Mode

	ListFarmacie() ([]models.Farmacia, error)
	InsertFarmacia(f *models.Farmacia) error
	InsertFarmacie(fs []models.Farmacia) error
	UpdateFarmacia(id uuid.UUID, fields map[string]interface{}) error
	DeleteFarmacia(id uuid.UUID) error

	ListUsers() ([]models.User, error)
	InsertUser(u *models.User) error
	UpdateUser(id uuid.UUID, fields map[string]interface{}) error
	DeleteUser(id uuid.UUID) error

	ListAssegnazioni() ([]models.Assegnazione, error)
	// UpsertAssegnazione replaces any existing assignment for the same
	// farmacia so at most one row per farmacia ever exists.
	UpsertAssegnazione(a *models.Assegnazione) error
	DeleteAssegnazioneByFarmacia(farmaciaID uuid.UUID) error

	ListRilievi() ([]models.Rilievo, error)
	// UpsertRilievo replaces the record with the same (farmacia, fase) key
	// in full; fields absent from the new record do not survive.
	UpsertRilievo(rv *models.Rilievo) error

	ListCampi() ([]models.CampoRilievo, error)
	InsertCampo(c *models.CampoRilievo) error
	UpdateCampo(id uuid.UUID, fields map[string]interface{}) error
	DeleteCampo(id uuid.UUID) error

	ListRegistrazioni() ([]models.Registrazione, error)
	InsertRegistrazione(rg *models.Registrazione) error
	UpdateRegistrazione(id uuid.UUID, fields map[string]interface{}) error
}
