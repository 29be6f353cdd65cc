// store/hosted.go
package store

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/farmatrack/models"
)

// HostedStore persists to the hosted postgres backend through gorm. Remote
// errors propagate unwrapped; the facade decides what to do with them.
type HostedStore struct {
	db *gorm.DB
}

func NewHosted(db *gorm.DB) *HostedStore {
	return &HostedStore{db: db}
}

func (s *HostedStore) Mode() Mode { return ModeHosted }

// toColumns translates a sparse field map from JSON field names to the
// snake_case column names of the hosted schema. Only caller-supplied fields
// are translated and sent.
func toColumns(fields map[string]interface{}) map[string]interface{} {
	cols := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		cols[snakeCase(k)] = v
	}
	return cols
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *HostedStore) updateByID(model interface{}, id uuid.UUID, fields map[string]interface{}) error {
	res := s.db.Model(model).Where("id = ?", id).Updates(toColumns(fields))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- farmacie ---

func (s *HostedStore) ListFarmacie() ([]models.Farmacia, error) {
	var fs []models.Farmacia
	err := s.db.Order("nome").Find(&fs).Error
	return fs, err
}

func (s *HostedStore) InsertFarmacia(f *models.Farmacia) error {
	return s.db.Create(f).Error
}

func (s *HostedStore) InsertFarmacie(fs []models.Farmacia) error {
	if len(fs) == 0 {
		return nil
	}
	return s.db.Create(&fs).Error
}

func (s *HostedStore) UpdateFarmacia(id uuid.UUID, fields map[string]interface{}) error {
	return s.updateByID(&models.Farmacia{}, id, fields)
}

func (s *HostedStore) DeleteFarmacia(id uuid.UUID) error {
	return s.db.Delete(&models.Farmacia{}, "id = ?", id).Error
}

// --- users ---

func (s *HostedStore) ListUsers() ([]models.User, error) {
	var us []models.User
	err := s.db.Order("nome").Find(&us).Error
	return us, err
}

func (s *HostedStore) InsertUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *HostedStore) UpdateUser(id uuid.UUID, fields map[string]interface{}) error {
	return s.updateByID(&models.User{}, id, fields)
}

// DeleteUser removes only the user row. Rilievi keep their author reference;
// there is no cascade.
func (s *HostedStore) DeleteUser(id uuid.UUID) error {
	return s.db.Delete(&models.User{}, "id = ?", id).Error
}

// --- assegnazioni ---

func (s *HostedStore) ListAssegnazioni() ([]models.Assegnazione, error) {
	var as []models.Assegnazione
	err := s.db.Find(&as).Error
	return as, err
}

// UpsertAssegnazione deletes any assignment for the same farmacia and
// inserts the new one in a single transaction. No unique constraint backs
// the invariant; the delete-then-insert carries it.
func (s *HostedStore) UpsertAssegnazione(a *models.Assegnazione) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farmacia_id = ?", a.FarmaciaID).Delete(&models.Assegnazione{}).Error; err != nil {
			return err
		}
		return tx.Create(a).Error
	})
}

func (s *HostedStore) DeleteAssegnazioneByFarmacia(farmaciaID uuid.UUID) error {
	return s.db.Where("farmacia_id = ?", farmaciaID).Delete(&models.Assegnazione{}).Error
}

// --- rilievi ---

func (s *HostedStore) ListRilievi() ([]models.Rilievo, error) {
	var rvs []models.Rilievo
	err := s.db.Find(&rvs).Error
	return rvs, err
}

// UpsertRilievo replaces the whole record for the (farmacia, fase) pair so a
// resubmission never inherits fields from the previous one.
func (s *HostedStore) UpsertRilievo(rv *models.Rilievo) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("farmacia_id = ? AND fase = ?", rv.FarmaciaID, rv.Fase).Delete(&models.Rilievo{}).Error; err != nil {
			return err
		}
		return tx.Create(rv).Error
	})
}

// --- campi rilievo ---

func (s *HostedStore) ListCampi() ([]models.CampoRilievo, error) {
	var cs []models.CampoRilievo
	err := s.db.Order("fase, ordine").Find(&cs).Error
	return cs, err
}

func (s *HostedStore) InsertCampo(c *models.CampoRilievo) error {
	return s.db.Create(c).Error
}

func (s *HostedStore) UpdateCampo(id uuid.UUID, fields map[string]interface{}) error {
	return s.updateByID(&models.CampoRilievo{}, id, fields)
}

func (s *HostedStore) DeleteCampo(id uuid.UUID) error {
	return s.db.Delete(&models.CampoRilievo{}, "id = ?", id).Error
}

// --- registrazioni ---

func (s *HostedStore) ListRegistrazioni() ([]models.Registrazione, error) {
	var rgs []models.Registrazione
	err := s.db.Order("created_at desc").Find(&rgs).Error
	return rgs, err
}

func (s *HostedStore) InsertRegistrazione(rg *models.Registrazione) error {
	return s.db.Create(rg).Error
}

func (s *HostedStore) UpdateRegistrazione(id uuid.UUID, fields map[string]interface{}) error {
	return s.updateByID(&models.Registrazione{}, id, fields)
}
