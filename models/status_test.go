package models

import (
	"testing"

	"github.com/google/uuid"
)

func rv(farmaciaID uuid.UUID, fase int, completato, attesa bool) Rilievo {
	return Rilievo{
		ID:              uuid.New(),
		FarmaciaID:      farmaciaID,
		Fase:            fase,
		Completato:      completato,
		AttesaMateriali: attesa,
	}
}

func TestDeriveStatus(t *testing.T) {
	target := uuid.New()
	other := uuid.New()

	tests := []struct {
		name     string
		rilievi  []Rilievo
		expected Stato
	}{
		{"no records at all", nil, StatoNotStarted},
		{"records for another farmacia only", []Rilievo{rv(other, 1, true, false)}, StatoNotStarted},
		{"incomplete record only", []Rilievo{rv(target, 1, false, false)}, StatoNotStarted},
		{"one phase complete", []Rilievo{rv(target, 1, true, false)}, StatoInProgress},
		{"two phases complete", []Rilievo{rv(target, 1, true, false), rv(target, 2, true, false)}, StatoInProgress},
		{"all three complete", []Rilievo{rv(target, 1, true, false), rv(target, 2, true, false), rv(target, 3, true, false)}, StatoCompleted},
		{"all three complete, created out of order", []Rilievo{rv(target, 3, true, false), rv(target, 1, true, false), rv(target, 2, true, false)}, StatoCompleted},
		{"waiting on an incomplete phase", []Rilievo{rv(target, 1, true, false), rv(target, 2, false, true)}, StatoWaiting},
		{"waiting wins over full completion", []Rilievo{rv(target, 1, true, false), rv(target, 2, true, true), rv(target, 3, true, false)}, StatoWaiting},
		{"waiting flag on another farmacia is ignored", []Rilievo{rv(other, 1, false, true), rv(target, 1, true, false)}, StatoInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.rilievi, target); got != tt.expected {
				t.Errorf("DeriveStatus() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCurrentPhase(t *testing.T) {
	target := uuid.New()

	tests := []struct {
		name      string
		completed []int
		expected  int
	}{
		{"nothing completed", nil, 1},
		{"phase 1 completed", []int{1}, 2},
		{"phase 2 completed only", []int{2}, 1},
		{"phases 1 and 2 completed", []int{1, 2}, 3},
		{"phases 1 and 3 completed", []int{1, 3}, 2},
		{"all three completed returns 3, not a done value", []int{1, 2, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rilievi []Rilievo
			for _, fase := range tt.completed {
				rilievi = append(rilievi, rv(target, fase, true, false))
			}
			if got := CurrentPhase(rilievi, target); got != tt.expected {
				t.Errorf("CurrentPhase() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestIndexRilievi(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	rilievi := []Rilievo{rv(a, 1, true, false), rv(b, 1, false, false), rv(a, 2, false, false)}

	byFarmacia := IndexRilievi(rilievi)
	if len(byFarmacia[a]) != 2 || len(byFarmacia[b]) != 1 {
		t.Errorf("IndexRilievi() grouped %d/%d records, expected 2/1", len(byFarmacia[a]), len(byFarmacia[b]))
	}
	if got := DeriveStatus(byFarmacia[a], a); got != StatoInProgress {
		t.Errorf("DeriveStatus over indexed slice = %v, expected %v", got, StatoInProgress)
	}
}
