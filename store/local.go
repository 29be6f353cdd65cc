// store/local.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/farmatrack/models"
)

// SchemaVersion marks the layout of the demo data files. Any mismatch on
// open blows the stored collections away and reseeds — a deliberate demo
// reset, not a migration.
const SchemaVersion = "3"

const (
	keyUsers         = "users"
	keyFarmacie      = "farmacie"
	keyAssegnazioni  = "assegnazioni"
	keyRilievi       = "rilievi"
	keyCampi         = "campi_rilievo"
	keyRegistrazioni = "registrazioni"
	keyVersion       = "schema_version"
)

// LocalStore is the standalone demo backend: one JSON blob per collection
// under a fixed key in the data directory. Every write replaces the whole
// collection; there is no per-record patching at this layer.
type LocalStore struct {
	dir string
}

func OpenLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("local store: create data dir: %w", err)
	}
	s := &LocalStore{dir: dir}
	stored, err := os.ReadFile(s.path(keyVersion))
	if err == nil && string(stored) == SchemaVersion {
		return s, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("local store: read version marker: %w", err)
	}
	log.Printf("local store: schema version %q != %q, reseeding demo data", string(stored), SchemaVersion)
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) Mode() Mode { return ModeLocal }

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// reset force-writes every collection back to its seeded default and stamps
// the version marker.
func (s *LocalStore) reset() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword()), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("local store: seed admin password: %w", err)
	}
	now := time.Now()
	admin := models.User{
		ID:           uuid.New(),
		Nome:         "Amministratore",
		Email:        "admin@farmatrack.local",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	seeds := []func() error{
		func() error { return writeColl(s, keyUsers, []models.User{admin}) },
		func() error { return writeColl(s, keyFarmacie, seedFarmacie(now)) },
		func() error { return writeColl(s, keyAssegnazioni, []models.Assegnazione{}) },
		func() error { return writeColl(s, keyRilievi, []models.Rilievo{}) },
		func() error { return writeColl(s, keyCampi, []models.CampoRilievo{}) },
		func() error { return writeColl(s, keyRegistrazioni, []models.Registrazione{}) },
	}
	for _, seed := range seeds {
		if err := seed(); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path(keyVersion), []byte(SchemaVersion), 0644)
}

func defaultAdminPassword() string {
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	return "admin"
}

func seedFarmacie(now time.Time) []models.Farmacia {
	return []models.Farmacia{
		{
			ID: uuid.New(), Nome: "Farmacia Centrale", Indirizzo: "Via Roma 12",
			Citta: "Milano", Provincia: "MI", CAP: "20121",
			Latitudine: 45.4642, Longitudine: 9.1900,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New(), Nome: "Farmacia San Marco", Indirizzo: "Corso Garibaldi 45",
			Citta: "Torino", Provincia: "TO", CAP: "10122",
			Latitudine: 45.0703, Longitudine: 7.6869,
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

// readColl deserializes one whole collection. A corrupt blob fails the read
// with the decode error; nothing attempts recovery.
func readColl[T any](s *LocalStore, key string) ([]T, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("local store: read %s: %w", key, err)
	}
	var coll []T
	if err := json.Unmarshal(raw, &coll); err != nil {
		return nil, fmt.Errorf("local store: corrupt %s blob: %w", key, err)
	}
	return coll, nil
}

func writeColl[T any](s *LocalStore, key string, coll []T) error {
	raw, err := json.MarshalIndent(coll, "", "  ")
	if err != nil {
		return fmt.Errorf("local store: encode %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("local store: write %s: %w", key, err)
	}
	return os.Rename(tmp, s.path(key))
}

func (s *LocalStore) stamp(id *uuid.UUID, created, updated *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := time.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

// --- farmacie ---

func (s *LocalStore) ListFarmacie() ([]models.Farmacia, error) {
	return readColl[models.Farmacia](s, keyFarmacie)
}

func (s *LocalStore) InsertFarmacia(f *models.Farmacia) error {
	fs := []models.Farmacia{*f}
	if err := s.InsertFarmacie(fs); err != nil {
		return err
	}
	// copy the stamped id and timestamps back to the caller's record
	*f = fs[0]
	return nil
}

func (s *LocalStore) InsertFarmacie(fs []models.Farmacia) error {
	coll, err := readColl[models.Farmacia](s, keyFarmacie)
	if err != nil {
		return err
	}
	for i := range fs {
		s.stamp(&fs[i].ID, &fs[i].CreatedAt, &fs[i].UpdatedAt)
		coll = append(coll, fs[i])
	}
	return writeColl(s, keyFarmacie, coll)
}

func (s *LocalStore) UpdateFarmacia(id uuid.UUID, fields map[string]interface{}) error {
	coll, err := readColl[models.Farmacia](s, keyFarmacie)
	if err != nil {
		return err
	}
	for i := range coll {
		if coll[i].ID == id {
			if err := applyFields(&coll[i], fields); err != nil {
				return err
			}
			coll[i].UpdatedAt = time.Now()
			return writeColl(s, keyFarmacie, coll)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) DeleteFarmacia(id uuid.UUID) error {
	coll, err := readColl[models.Farmacia](s, keyFarmacie)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, f := range coll {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return writeColl(s, keyFarmacie, out)
}

// --- users ---

func (s *LocalStore) ListUsers() ([]models.User, error) {
	return readColl[models.User](s, keyUsers)
}

func (s *LocalStore) InsertUser(u *models.User) error {
	coll, err := readColl[models.User](s, keyUsers)
	if err != nil {
		return err
	}
	s.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return writeColl(s, keyUsers, append(coll, *u))
}

func (s *LocalStore) UpdateUser(id uuid.UUID, fields map[string]interface{}) error {
	coll, err := readColl[models.User](s, keyUsers)
	if err != nil {
		return err
	}
	for i := range coll {
		if coll[i].ID == id {
			if err := applyFields(&coll[i], fields); err != nil {
				return err
			}
			coll[i].UpdatedAt = time.Now()
			return writeColl(s, keyUsers, coll)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) DeleteUser(id uuid.UUID) error {
	coll, err := readColl[models.User](s, keyUsers)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, u := range coll {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return writeColl(s, keyUsers, out)
}

// --- assegnazioni ---

func (s *LocalStore) ListAssegnazioni() ([]models.Assegnazione, error) {
	return readColl[models.Assegnazione](s, keyAssegnazioni)
}

func (s *LocalStore) UpsertAssegnazione(a *models.Assegnazione) error {
	coll, err := readColl[models.Assegnazione](s, keyAssegnazioni)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, cur := range coll {
		if cur.FarmaciaID != a.FarmaciaID {
			out = append(out, cur)
		}
	}
	s.stamp(&a.ID, &a.CreatedAt, nil)
	return writeColl(s, keyAssegnazioni, append(out, *a))
}

func (s *LocalStore) DeleteAssegnazioneByFarmacia(farmaciaID uuid.UUID) error {
	coll, err := readColl[models.Assegnazione](s, keyAssegnazioni)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, cur := range coll {
		if cur.FarmaciaID != farmaciaID {
			out = append(out, cur)
		}
	}
	return writeColl(s, keyAssegnazioni, out)
}

// --- rilievi ---

func (s *LocalStore) ListRilievi() ([]models.Rilievo, error) {
	return readColl[models.Rilievo](s, keyRilievi)
}

func (s *LocalStore) UpsertRilievo(rv *models.Rilievo) error {
	coll, err := readColl[models.Rilievo](s, keyRilievi)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, cur := range coll {
		if cur.FarmaciaID != rv.FarmaciaID || cur.Fase != rv.Fase {
			out = append(out, cur)
		}
	}
	s.stamp(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	return writeColl(s, keyRilievi, append(out, *rv))
}

// --- campi rilievo ---

func (s *LocalStore) ListCampi() ([]models.CampoRilievo, error) {
	return readColl[models.CampoRilievo](s, keyCampi)
}

func (s *LocalStore) InsertCampo(c *models.CampoRilievo) error {
	coll, err := readColl[models.CampoRilievo](s, keyCampi)
	if err != nil {
		return err
	}
	s.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return writeColl(s, keyCampi, append(coll, *c))
}

func (s *LocalStore) UpdateCampo(id uuid.UUID, fields map[string]interface{}) error {
	coll, err := readColl[models.CampoRilievo](s, keyCampi)
	if err != nil {
		return err
	}
	for i := range coll {
		if coll[i].ID == id {
			if err := applyFields(&coll[i], fields); err != nil {
				return err
			}
			coll[i].UpdatedAt = time.Now()
			return writeColl(s, keyCampi, coll)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) DeleteCampo(id uuid.UUID) error {
	coll, err := readColl[models.CampoRilievo](s, keyCampi)
	if err != nil {
		return err
	}
	out := coll[:0]
	for _, c := range coll {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return writeColl(s, keyCampi, out)
}

// --- registrazioni ---

func (s *LocalStore) ListRegistrazioni() ([]models.Registrazione, error) {
	return readColl[models.Registrazione](s, keyRegistrazioni)
}

func (s *LocalStore) InsertRegistrazione(rg *models.Registrazione) error {
	coll, err := readColl[models.Registrazione](s, keyRegistrazioni)
	if err != nil {
		return err
	}
	s.stamp(&rg.ID, &rg.CreatedAt, &rg.UpdatedAt)
	return writeColl(s, keyRegistrazioni, append(coll, *rg))
}

func (s *LocalStore) UpdateRegistrazione(id uuid.UUID, fields map[string]interface{}) error {
	coll, err := readColl[models.Registrazione](s, keyRegistrazioni)
	if err != nil {
		return err
	}
	for i := range coll {
		if coll[i].ID == id {
			if err := applyFields(&coll[i], fields); err != nil {
				return err
			}
			coll[i].UpdatedAt = time.Now()
			return writeColl(s, keyRegistrazioni, coll)
		}
	}
	return ErrNotFound
}
