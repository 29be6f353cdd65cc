package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"p9e.in/farmatrack/models"
)

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	f := NewFacade(newTestLocal(t), nil)
	require.NoError(t, f.Init())
	return f
}

func addMerchandiser(t *testing.T, f *Facade, nome, email string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Nome:         nome,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleMerchandiser,
		IsActive:     true,
	}
	require.NoError(t, f.AddUser(&u))
	return u
}

func TestFacadeInitLoadsSeededData(t *testing.T) {
	f := newTestFacade(t)
	require.True(t, f.Ready())
	require.Equal(t, ModeLocal, f.Mode())
	require.NotEmpty(t, f.Farmacie())
	require.Len(t, f.Users(), 1)
}

func TestAssignReplacesPreviousAssignment(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]
	a := addMerchandiser(t, f, "Agente A", "a@example.com")
	b := addMerchandiser(t, f, "Agente B", "b@example.com")

	require.NoError(t, f.Assign(farmacia.ID, a.ID))
	require.NoError(t, f.Assign(farmacia.ID, b.ID))

	var rows []models.Assegnazione
	for _, cur := range f.Assegnazioni() {
		if cur.FarmaciaID == farmacia.ID {
			rows = append(rows, cur)
		}
	}
	require.Len(t, rows, 1)
	require.Equal(t, b.ID, rows[0].MerchandiserID)

	holder, ok := f.AssegnatarioDi(farmacia.ID)
	require.True(t, ok)
	require.Equal(t, b.ID, holder)
}

func TestSubmitRilievoReplacesSamePhase(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]
	agent := addMerchandiser(t, f, "Agente", "agente@example.com")

	larghezza := 90.0
	first := models.Rilievo{
		FarmaciaID:     farmacia.ID,
		MerchandiserID: agent.ID,
		Fase:           1,
		LarghezzaCm:    &larghezza,
		Note:           "prima misura",
	}
	require.NoError(t, f.SubmitRilievo(&first))

	altezza := 180.0
	second := models.Rilievo{
		FarmaciaID:     farmacia.ID,
		MerchandiserID: agent.ID,
		Fase:           1,
		AltezzaCm:      &altezza,
	}
	require.NoError(t, f.SubmitRilievo(&second))

	var rows []models.Rilievo
	for _, rv := range f.Rilievi() {
		if rv.FarmaciaID == farmacia.ID && rv.Fase == 1 {
			rows = append(rows, rv)
		}
	}
	require.Len(t, rows, 1)
	// the replacement does not inherit anything from the first submission
	require.Nil(t, rows[0].LarghezzaCm)
	require.Empty(t, rows[0].Note)
	require.NotNil(t, rows[0].AltezzaCm)
	require.Equal(t, 180.0, *rows[0].AltezzaCm)
}

func TestSubmitRilievoSetsCompletionTime(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]

	rv := models.Rilievo{FarmaciaID: farmacia.ID, Fase: 2, Completato: true}
	require.NoError(t, f.SubmitRilievo(&rv))
	require.NotNil(t, rv.DataCompletamento)

	require.ErrorIs(t, f.SubmitRilievo(&models.Rilievo{FarmaciaID: farmacia.ID, Fase: 4}), ErrFaseInvalida)
}

func TestRemoveUserDoesNotCascadeToRilievi(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]
	agent := addMerchandiser(t, f, "Agente", "agente@example.com")

	require.NoError(t, f.Assign(farmacia.ID, agent.ID))
	rv := models.Rilievo{FarmaciaID: farmacia.ID, MerchandiserID: agent.ID, Fase: 1, Completato: true}
	require.NoError(t, f.SubmitRilievo(&rv))

	require.NoError(t, f.RemoveUser(agent.ID))

	_, found := f.FindUser(agent.ID)
	require.False(t, found)

	// the orphaned author reference is permitted by design
	rilievi := f.Rilievi()
	require.Len(t, rilievi, 1)
	require.Equal(t, agent.ID, rilievi[0].MerchandiserID)

	require.ErrorIs(t, f.RemoveUser(agent.ID), ErrNotFound)
}

func TestAddUserRejectsDuplicateEmail(t *testing.T) {
	f := newTestFacade(t)
	addMerchandiser(t, f, "Agente", "agente@example.com")

	dup := models.User{Nome: "Doppione", Email: "Agente@Example.com", PasswordHash: "x", Role: models.RoleMerchandiser}
	require.ErrorIs(t, f.AddUser(&dup), ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "segreto")
	f := newTestFacade(t)

	u, ok := f.Authenticate("admin@farmatrack.local", "segreto")
	require.True(t, ok)
	require.Equal(t, models.RoleAdmin, u.Role)

	_, ok = f.Authenticate("admin@farmatrack.local", "sbagliata")
	require.False(t, ok)

	_, ok = f.Authenticate("nessuno@farmatrack.local", "segreto")
	require.False(t, ok)
}

func TestRegistrazioneLifecycle(t *testing.T) {
	f := newTestFacade(t)

	rg := models.Registrazione{Nome: "Nuovo Agente", Email: "nuovo@example.com", PasswordHash: "hash"}
	require.NoError(t, f.SubmitRegistrazione(&rg))
	require.Equal(t, models.RegistrazionePending, rg.Stato)

	u, err := f.ApproveRegistrazione(rg.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleMerchandiser, u.Role)
	require.Equal(t, "nuovo@example.com", u.Email)

	_, found := f.FindUser(u.ID)
	require.True(t, found)

	// terminal states are final
	_, err = f.ApproveRegistrazione(rg.ID)
	require.ErrorIs(t, err, ErrRegistrazioneChiusa)
	require.ErrorIs(t, f.RejectRegistrazione(rg.ID), ErrRegistrazioneChiusa)
}

func TestRejectRegistrazione(t *testing.T) {
	f := newTestFacade(t)

	rg := models.Registrazione{Nome: "Respinto", Email: "respinto@example.com", PasswordHash: "hash"}
	require.NoError(t, f.SubmitRegistrazione(&rg))
	require.NoError(t, f.RejectRegistrazione(rg.ID))

	for _, cur := range f.Registrazioni() {
		if cur.ID == rg.ID {
			require.Equal(t, models.RegistrazioneRejected, cur.Stato)
			require.NotNil(t, cur.DecisaIl)
		}
	}

	// no user was created for the rejected application
	for _, u := range f.Users() {
		require.NotEqual(t, "respinto@example.com", u.Email)
	}
}

func TestUnassignClearsAssignment(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]
	agent := addMerchandiser(t, f, "Agente", "agente@example.com")

	require.NoError(t, f.Assign(farmacia.ID, agent.ID))
	require.NoError(t, f.Unassign(farmacia.ID))

	_, ok := f.AssegnatarioDi(farmacia.ID)
	require.False(t, ok)
}

func TestAddFarmaciaStampsCallerRecord(t *testing.T) {
	f := newTestFacade(t)

	fa := models.Farmacia{Nome: "Farmacia Nuova", Citta: "Firenze"}
	require.NoError(t, f.AddFarmacia(&fa))
	require.NotEqual(t, uuid.Nil, fa.ID)

	// cache and storage agree on the generated id
	cached, found := f.FindFarmacia(fa.ID)
	require.True(t, found)
	require.Equal(t, "Farmacia Nuova", cached.Nome)

	require.NoError(t, f.UpdateFarmacia(fa.ID, map[string]interface{}{"citta": "Prato"}))
	got, found := f.FindFarmacia(fa.ID)
	require.True(t, found)
	require.Equal(t, "Prato", got.Citta)
}

func TestUpdateUserDeactivates(t *testing.T) {
	f := newTestFacade(t)
	agent := addMerchandiser(t, f, "Agente", "agente@example.com")

	require.NoError(t, f.UpdateUser(agent.ID, map[string]interface{}{"isActive": false}))

	got, found := f.FindUser(agent.ID)
	require.True(t, found)
	require.False(t, got.IsActive)

	// a deactivated account can no longer log in
	_, ok := f.Authenticate("agente@example.com", "password")
	require.False(t, ok)
}

func TestUpdateFarmaciaSparseThroughFacade(t *testing.T) {
	f := newTestFacade(t)
	farmacia := f.Farmacie()[0]

	require.NoError(t, f.UpdateFarmacia(farmacia.ID, map[string]interface{}{"referente": "Dott. Bianchi"}))

	got, found := f.FindFarmacia(farmacia.ID)
	require.True(t, found)
	require.Equal(t, "Dott. Bianchi", got.Referente)
	require.Equal(t, farmacia.Nome, got.Nome)

	require.ErrorIs(t, f.UpdateFarmacia(uuid.New(), map[string]interface{}{"referente": "x"}), ErrNotFound)
}
