// store/facade.go
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/farmatrack/models"
	"p9e.in/farmatrack/pkg/notify"
)

var (
	ErrEmailTaken          = errors.New("store: email already in use")
	ErrRegistrazioneChiusa = errors.New("store: registration already decided")
	ErrFaseInvalida        = errors.New("store: fase must be 1, 2 or 3")
)

const initAttempts = 3

// Facade is the single component every read and write of application data
// flows through. It owns the in-memory cache; handlers only read snapshots
// or call the mutators below. The backing store is fixed at construction.
type Facade struct {
	store    Store
	notifier *notify.Notifier

	mu            sync.RWMutex
	farmacie      []models.Farmacia
	users         []models.User
	assegnazioni  []models.Assegnazione
	rilievi       []models.Rilievo
	campi         []models.CampoRilievo
	registrazioni []models.Registrazione
	ready         bool
}

// NewFacade wires the facade to its backend. notifier may be nil (tests);
// notifications are then skipped.
func NewFacade(s Store, n *notify.Notifier) *Facade {
	return &Facade{store: s, notifier: n}
}

func (f *Facade) Mode() Mode { return f.store.Mode() }

func (f *Facade) Ready() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ready
}

// Init performs the initial bulk fetch. The essential collections (farmacie,
// users, assegnazioni, rilievi) are retried with backoff and then fail Init
// outright — no silent permanent-loading state. The non-essential ones
// (campi, registrazioni) fall back to empty sets.
func (f *Facade) Init() error {
	var (
		farmacie     []models.Farmacia
		users        []models.User
		assegnazioni []models.Assegnazione
		rilievi      []models.Rilievo
	)
	err := f.withRetry(func() error {
		var err error
		if farmacie, err = f.store.ListFarmacie(); err != nil {
			return fmt.Errorf("farmacie: %w", err)
		}
		if users, err = f.store.ListUsers(); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		if assegnazioni, err = f.store.ListAssegnazioni(); err != nil {
			return fmt.Errorf("assegnazioni: %w", err)
		}
		if rilievi, err = f.store.ListRilievi(); err != nil {
			return fmt.Errorf("rilievi: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("facade: initial fetch: %w", err)
	}

	campi, err := f.store.ListCampi()
	if err != nil {
		log.Printf("facade: campi fetch failed, starting with empty set: %v", err)
		campi = nil
	}
	registrazioni, err := f.store.ListRegistrazioni()
	if err != nil {
		log.Printf("facade: registrazioni fetch failed, starting with empty set: %v", err)
		registrazioni = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.farmacie = farmacie
	f.users = users
	f.assegnazioni = assegnazioni
	f.rilievi = rilievi
	f.campi = campi
	f.registrazioni = registrazioni
	f.ready = true
	return nil
}

func (f *Facade) withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= initAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		// A corrupt local blob will not heal between attempts.
		if f.store.Mode() == ModeLocal {
			break
		}
		if attempt < initAttempts {
			wait := time.Duration(attempt) * time.Second
			log.Printf("facade: initial fetch attempt %d failed: %v (retrying in %s)", attempt, err, wait)
			time.Sleep(wait)
		}
	}
	return err
}

func (f *Facade) enqueue(msg notify.Message) {
	if f.notifier != nil {
		f.notifier.Enqueue(msg)
	}
}

// afterWrite reconciles the cache after a successful mutation. Hosted mode
// refetches the whole collection and takes the server's view — it never
// guesses the post-write state; a refetch failure keeps the stale cache and
// is only logged. Local mode applies the optimistic update directly.
func (f *Facade) afterWrite(refetch func() error, apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store.Mode() == ModeHosted {
		if err := refetch(); err != nil {
			log.Printf("facade: refetch after write failed, cache stays stale: %v", err)
		}
		return
	}
	apply()
}

func (f *Facade) refetchFarmacie() error {
	fresh, err := f.store.ListFarmacie()
	if err == nil {
		f.farmacie = fresh
	}
	return err
}

func (f *Facade) refetchUsers() error {
	fresh, err := f.store.ListUsers()
	if err == nil {
		f.users = fresh
	}
	return err
}

func (f *Facade) refetchAssegnazioni() error {
	fresh, err := f.store.ListAssegnazioni()
	if err == nil {
		f.assegnazioni = fresh
	}
	return err
}

func (f *Facade) refetchRilievi() error {
	fresh, err := f.store.ListRilievi()
	if err == nil {
		f.rilievi = fresh
	}
	return err
}

func (f *Facade) refetchCampi() error {
	fresh, err := f.store.ListCampi()
	if err == nil {
		f.campi = fresh
	}
	return err
}

func (f *Facade) refetchRegistrazioni() error {
	fresh, err := f.store.ListRegistrazioni()
	if err == nil {
		f.registrazioni = fresh
	}
	return err
}

// --- snapshot accessors ---

func (f *Facade) Farmacie() []models.Farmacia {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Farmacia(nil), f.farmacie...)
}

func (f *Facade) Users() []models.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.User(nil), f.users...)
}

func (f *Facade) Assegnazioni() []models.Assegnazione {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Assegnazione(nil), f.assegnazioni...)
}

func (f *Facade) Rilievi() []models.Rilievo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Rilievo(nil), f.rilievi...)
}

func (f *Facade) Campi() []models.CampoRilievo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.CampoRilievo(nil), f.campi...)
}

func (f *Facade) Registrazioni() []models.Registrazione {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Registrazione(nil), f.registrazioni...)
}

func (f *Facade) FindFarmacia(id uuid.UUID) (models.Farmacia, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, fa := range f.farmacie {
		if fa.ID == id {
			return fa, true
		}
	}
	return models.Farmacia{}, false
}

func (f *Facade) FindUser(id uuid.UUID) (models.User, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// AssegnatarioDi returns the merchandiser currently holding the farmacia.
func (f *Facade) AssegnatarioDi(farmaciaID uuid.UUID) (uuid.UUID, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, a := range f.assegnazioni {
		if a.FarmaciaID == farmaciaID {
			return a.MerchandiserID, true
		}
	}
	return uuid.Nil, false
}

// --- farmacie ---

func (f *Facade) AddFarmacia(fa *models.Farmacia) error {
	if err := f.store.InsertFarmacia(fa); err != nil {
		return err
	}
	f.afterWrite(f.refetchFarmacie, func() {
		f.farmacie = append(f.farmacie, *fa)
	})
	return nil
}

// ImportFarmacie bulk-inserts rows from the spreadsheet import.
func (f *Facade) ImportFarmacie(fs []models.Farmacia) (int, error) {
	if len(fs) == 0 {
		return 0, nil
	}
	if err := f.store.InsertFarmacie(fs); err != nil {
		return 0, err
	}
	f.afterWrite(f.refetchFarmacie, func() {
		f.farmacie = append(f.farmacie, fs...)
	})
	return len(fs), nil
}

func (f *Facade) UpdateFarmacia(id uuid.UUID, fields map[string]interface{}) error {
	if err := f.store.UpdateFarmacia(id, fields); err != nil {
		return err
	}
	f.afterWrite(f.refetchFarmacie, func() {
		for i := range f.farmacie {
			if f.farmacie[i].ID == id {
				if err := applyFields(&f.farmacie[i], fields); err != nil {
					log.Printf("facade: apply farmacia update to cache: %v", err)
				}
				f.farmacie[i].UpdatedAt = time.Now()
			}
		}
	})
	return nil
}

func (f *Facade) RemoveFarmacia(id uuid.UUID) error {
	if err := f.store.DeleteFarmacia(id); err != nil {
		return err
	}
	f.afterWrite(f.refetchFarmacie, func() {
		out := f.farmacie[:0]
		for _, fa := range f.farmacie {
			if fa.ID != id {
				out = append(out, fa)
			}
		}
		f.farmacie = out
	})
	return nil
}

// --- users ---

// AddUser rejects duplicate emails: the login lookup is by email, and a
// silent first-match between duplicates is not worth the surprise.
func (f *Facade) AddUser(u *models.User) error {
	f.mu.RLock()
	for _, cur := range f.users {
		if strings.EqualFold(cur.Email, u.Email) {
			f.mu.RUnlock()
			return ErrEmailTaken
		}
	}
	f.mu.RUnlock()
	if err := f.store.InsertUser(u); err != nil {
		return err
	}
	f.afterWrite(f.refetchUsers, func() {
		f.users = append(f.users, *u)
	})
	return nil
}

// UpdateUser applies a sparse field update, typically a rename, a phone
// change or an isActive toggle. Email and password are not changed here.
func (f *Facade) UpdateUser(id uuid.UUID, fields map[string]interface{}) error {
	if err := f.store.UpdateUser(id, fields); err != nil {
		return err
	}
	f.afterWrite(f.refetchUsers, func() {
		for i := range f.users {
			if f.users[i].ID == id {
				if err := applyFields(&f.users[i], fields); err != nil {
					log.Printf("facade: apply user update to cache: %v", err)
				}
				f.users[i].UpdatedAt = time.Now()
			}
		}
	})
	return nil
}

// RemoveUser drops the user row only. Rilievi authored by the user keep
// their merchandiser reference; nothing cascades.
func (f *Facade) RemoveUser(id uuid.UUID) error {
	removed, found := f.FindUser(id)
	if !found {
		return ErrNotFound
	}
	if err := f.store.DeleteUser(id); err != nil {
		return err
	}
	f.afterWrite(f.refetchUsers, func() {
		out := f.users[:0]
		for _, u := range f.users {
			if u.ID != id {
				out = append(out, u)
			}
		}
		f.users = out
	})
	if removed.Role == models.RoleMerchandiser {
		f.enqueue(notify.Message{Kind: notify.KindRemoval, ToEmail: removed.Email, ToName: removed.Nome})
	}
	return nil
}

// Authenticate looks the user up by email and checks the password. A miss
// is a boolean failure, never an error.
func (f *Facade) Authenticate(email, password string) (models.User, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if !u.IsActive || !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return u, true
		}
		return models.User{}, false
	}
	return models.User{}, false
}

// --- assegnazioni ---

// Assign gives the farmacia to the merchandiser, replacing any previous
// assignment for that farmacia.
func (f *Facade) Assign(farmaciaID, merchandiserID uuid.UUID) error {
	a := models.Assegnazione{FarmaciaID: farmaciaID, MerchandiserID: merchandiserID}
	if err := f.store.UpsertAssegnazione(&a); err != nil {
		return err
	}
	f.afterWrite(f.refetchAssegnazioni, func() {
		out := f.assegnazioni[:0]
		for _, cur := range f.assegnazioni {
			if cur.FarmaciaID != farmaciaID {
				out = append(out, cur)
			}
		}
		f.assegnazioni = append(out, a)
	})
	return nil
}

func (f *Facade) Unassign(farmaciaID uuid.UUID) error {
	if err := f.store.DeleteAssegnazioneByFarmacia(farmaciaID); err != nil {
		return err
	}
	f.afterWrite(f.refetchAssegnazioni, func() {
		out := f.assegnazioni[:0]
		for _, cur := range f.assegnazioni {
			if cur.FarmaciaID != farmaciaID {
				out = append(out, cur)
			}
		}
		f.assegnazioni = out
	})
	return nil
}

// --- rilievi ---

// SubmitRilievo records one phase survey, replacing any previous record for
// the same (farmacia, fase) pair in full.
func (f *Facade) SubmitRilievo(rv *models.Rilievo) error {
	if rv.Fase < models.FaseRilievoMisure || rv.Fase > models.FaseCaricamento {
		return ErrFaseInvalida
	}
	if rv.Completato && rv.DataCompletamento == nil {
		now := time.Now()
		rv.DataCompletamento = &now
	}
	if err := f.store.UpsertRilievo(rv); err != nil {
		return err
	}
	f.afterWrite(f.refetchRilievi, func() {
		out := f.rilievi[:0]
		for _, cur := range f.rilievi {
			if cur.FarmaciaID != rv.FarmaciaID || cur.Fase != rv.Fase {
				out = append(out, cur)
			}
		}
		f.rilievi = append(out, *rv)
	})
	return nil
}

// --- campi rilievo ---

func (f *Facade) AddCampo(c *models.CampoRilievo) error {
	if c.Fase < models.FaseRilievoMisure || c.Fase > models.FaseCaricamento {
		return ErrFaseInvalida
	}
	if err := f.store.InsertCampo(c); err != nil {
		return err
	}
	f.afterWrite(f.refetchCampi, func() {
		f.campi = append(f.campi, *c)
	})
	return nil
}

func (f *Facade) UpdateCampo(id uuid.UUID, fields map[string]interface{}) error {
	if err := f.store.UpdateCampo(id, fields); err != nil {
		return err
	}
	f.afterWrite(f.refetchCampi, func() {
		for i := range f.campi {
			if f.campi[i].ID == id {
				if err := applyFields(&f.campi[i], fields); err != nil {
					log.Printf("facade: apply campo update to cache: %v", err)
				}
				f.campi[i].UpdatedAt = time.Now()
			}
		}
	})
	return nil
}

func (f *Facade) RemoveCampo(id uuid.UUID) error {
	if err := f.store.DeleteCampo(id); err != nil {
		return err
	}
	f.afterWrite(f.refetchCampi, func() {
		out := f.campi[:0]
		for _, c := range f.campi {
			if c.ID != id {
				out = append(out, c)
			}
		}
		f.campi = out
	})
	return nil
}

// --- registrazioni ---

// SubmitRegistrazione files a merchandiser application and pings the admin.
func (f *Facade) SubmitRegistrazione(rg *models.Registrazione) error {
	rg.Stato = models.RegistrazionePending
	if err := f.store.InsertRegistrazione(rg); err != nil {
		return err
	}
	f.afterWrite(f.refetchRegistrazioni, func() {
		f.registrazioni = append(f.registrazioni, *rg)
	})
	f.enqueue(notify.Message{Kind: notify.KindRegistrationNotice, ToName: rg.Nome})
	return nil
}

func (f *Facade) findRegistrazione(id uuid.UUID) (models.Registrazione, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, rg := range f.registrazioni {
		if rg.ID == id {
			return rg, true
		}
	}
	return models.Registrazione{}, false
}

// ApproveRegistrazione turns a pending application into a merchandiser
// account and sends the welcome mail. Approved and rejected are terminal.
func (f *Facade) ApproveRegistrazione(id uuid.UUID) (models.User, error) {
	rg, found := f.findRegistrazione(id)
	if !found {
		return models.User{}, ErrNotFound
	}
	if rg.Stato != models.RegistrazionePending {
		return models.User{}, ErrRegistrazioneChiusa
	}
	u := models.User{
		Nome:         rg.Nome,
		Email:        rg.Email,
		Telefono:     rg.Telefono,
		PasswordHash: rg.PasswordHash,
		Role:         models.RoleMerchandiser,
		IsActive:     true,
	}
	if err := f.AddUser(&u); err != nil {
		return models.User{}, err
	}
	if err := f.decideRegistrazione(id, models.RegistrazioneApproved); err != nil {
		return models.User{}, err
	}
	f.enqueue(notify.Message{Kind: notify.KindWelcome, ToEmail: rg.Email, ToName: rg.Nome})
	return u, nil
}

func (f *Facade) RejectRegistrazione(id uuid.UUID) error {
	rg, found := f.findRegistrazione(id)
	if !found {
		return ErrNotFound
	}
	if rg.Stato != models.RegistrazionePending {
		return ErrRegistrazioneChiusa
	}
	if err := f.decideRegistrazione(id, models.RegistrazioneRejected); err != nil {
		return err
	}
	f.enqueue(notify.Message{Kind: notify.KindRejection, ToEmail: rg.Email, ToName: rg.Nome})
	return nil
}

func (f *Facade) decideRegistrazione(id uuid.UUID, stato string) error {
	now := time.Now()
	fields := map[string]interface{}{"stato": stato, "decisaIl": now}
	if err := f.store.UpdateRegistrazione(id, fields); err != nil {
		return err
	}
	f.afterWrite(f.refetchRegistrazioni, func() {
		for i := range f.registrazioni {
			if f.registrazioni[i].ID == id {
				f.registrazioni[i].Stato = stato
				f.registrazioni[i].DecisaIl = &now
				f.registrazioni[i].UpdatedAt = now
			}
		}
	})
	return nil
}
