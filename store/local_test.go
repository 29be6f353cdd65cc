package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"p9e.in/farmatrack/models"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocal(t.TempDir())
	require.NoError(t, err)
	return s
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestLocalRoundTrip(t *testing.T) {
	s := newTestLocal(t)

	larghezza := 120.5
	montaggio := true
	inserted := models.Rilievo{
		FarmaciaID:      uuid.New(),
		MerchandiserID:  uuid.New(),
		Fase:            2,
		LarghezzaCm:     &larghezza,
		MontaggioOk:     &montaggio,
		Foto:            []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		Note:            "espositore montato vicino alla cassa",
		Extra:           map[string]interface{}{"ripiani": float64(4), "illuminato": true},
		Completato:      true,
		AttesaMateriali: false,
	}
	require.NoError(t, s.UpsertRilievo(&inserted))

	read, err := s.ListRilievi()
	require.NoError(t, err)
	require.Len(t, read, 1)

	// serialization must be lossless across every attribute type,
	// including the ones left absent
	require.JSONEq(t, mustJSON(t, inserted), mustJSON(t, read[0]))
	require.Nil(t, read[0].AltezzaCm)
	require.Nil(t, read[0].ProdottiCaricati)
}

func TestLocalVersionResetReseeds(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenLocal(dir)
	require.NoError(t, err)

	seeded, err := s.ListFarmacie()
	require.NoError(t, err)

	extra := models.Farmacia{Nome: "Farmacia Test"}
	require.NoError(t, s.InsertFarmacia(&extra))

	// stale version marker blows the demo data away on the next open
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema_version.json"), []byte("0"), 0644))

	s2, err := OpenLocal(dir)
	require.NoError(t, err)
	fresh, err := s2.ListFarmacie()
	require.NoError(t, err)
	require.Len(t, fresh, len(seeded))
	for _, fa := range fresh {
		require.NotEqual(t, "Farmacia Test", fa.Nome)
	}

	users, err := s2.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, models.RoleAdmin, users[0].Role)
}

func TestLocalCorruptBlobFailsTheRead(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenLocal(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "farmacie.json"), []byte("{not json"), 0644))

	_, err = s.ListFarmacie()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "corrupt"), "error should name the corrupt blob: %v", err)

	// other collections stay readable
	_, err = s.ListUsers()
	require.NoError(t, err)
}

func TestLocalSparseUpdate(t *testing.T) {
	s := newTestLocal(t)

	fa := models.Farmacia{Nome: "Farmacia Verdi", Citta: "Bologna", Provincia: "BO"}
	require.NoError(t, s.InsertFarmacia(&fa))
	// the generated id must land on the caller's record, not on a copy
	require.NotEqual(t, uuid.Nil, fa.ID)
	require.False(t, fa.CreatedAt.IsZero())

	require.NoError(t, s.UpdateFarmacia(fa.ID, map[string]interface{}{"citta": "Modena"}))

	read, err := s.ListFarmacie()
	require.NoError(t, err)
	var got *models.Farmacia
	for i := range read {
		if read[i].ID == fa.ID {
			got = &read[i]
		}
	}
	require.NotNil(t, got)
	require.Equal(t, "Modena", got.Citta)
	require.Equal(t, "Farmacia Verdi", got.Nome)
	require.Equal(t, "BO", got.Provincia)

	require.ErrorIs(t, s.UpdateFarmacia(uuid.New(), map[string]interface{}{"citta": "Roma"}), ErrNotFound)
}

func TestLocalUpsertAssegnazioneReplaces(t *testing.T) {
	s := newTestLocal(t)
	farmacia := uuid.New()

	first := models.Assegnazione{FarmaciaID: farmacia, MerchandiserID: uuid.New()}
	require.NoError(t, s.UpsertAssegnazione(&first))

	secondAgent := uuid.New()
	second := models.Assegnazione{FarmaciaID: farmacia, MerchandiserID: secondAgent}
	require.NoError(t, s.UpsertAssegnazione(&second))

	all, err := s.ListAssegnazioni()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, secondAgent, all[0].MerchandiserID)
}
