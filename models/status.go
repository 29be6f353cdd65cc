// models/status.go
package models

import "github.com/google/uuid"

// Stato is the derived rollout state of a farmacia. It is never stored;
// it is computed from the rilievo set on every read.
type Stato string

const (
	StatoNotStarted Stato = "not_started"
	StatoInProgress Stato = "in_progress"
	StatoCompleted  Stato = "completed"
	StatoWaiting    Stato = "waiting"
)

// DeriveStatus computes the rollout state of one farmacia from the full
// rilievo set. The waiting-on-materials flag on any record, complete or not,
// wins over everything else; otherwise the state follows the count of
// completed phases.
func DeriveStatus(rilievi []Rilievo, farmaciaID uuid.UUID) Stato {
	completed := 0
	for _, rv := range rilievi {
		if rv.FarmaciaID != farmaciaID {
			continue
		}
		if rv.AttesaMateriali {
			return StatoWaiting
		}
		if rv.Completato {
			completed++
		}
	}
	switch {
	case completed == 0:
		return StatoNotStarted
	case completed >= 3:
		return StatoCompleted
	default:
		return StatoInProgress
	}
}

// CurrentPhase returns the lowest phase not yet completed for the farmacia.
// When phases 1 and 2 are both complete it returns 3 whether or not phase 3
// is done; there is no separate "finished" value.
func CurrentPhase(rilievi []Rilievo, farmaciaID uuid.UUID) int {
	done := make(map[int]bool, 3)
	for _, rv := range rilievi {
		if rv.FarmaciaID == farmaciaID && rv.Completato {
			done[rv.Fase] = true
		}
	}
	for _, fase := range []int{FaseRilievoMisure, FaseMontaggio, FaseCaricamento} {
		if !done[fase] {
			return fase
		}
	}
	return FaseCaricamento
}

// IndexRilievi groups survey records by farmacia so list views derive
// statuses in one pass instead of rescanning the whole set per row.
func IndexRilievi(rilievi []Rilievo) map[uuid.UUID][]Rilievo {
	byFarmacia := make(map[uuid.UUID][]Rilievo)
	for _, rv := range rilievi {
		byFarmacia[rv.FarmaciaID] = append(byFarmacia[rv.FarmaciaID], rv)
	}
	return byFarmacia
}
