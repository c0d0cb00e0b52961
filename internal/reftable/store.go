package reftable

import (
	"errors"
	"sync"
)

var ErrNotLoaded = errors.New("reference table not loaded")

// Provider hands out immutable table snapshots for one calculation run.
type Provider interface {
	Casing() (*CasingTable, error)
	Drill() (*DrillTable, error)
}

// Store is a Provider whose snapshots can be replaced at runtime.
// A run keeps the pointers it obtained, so a replacement never changes
// tables under a calculation in progress.
type Store struct {
	mu     sync.RWMutex
	casing *CasingTable
	drill  *DrillTable
}

func NewStore(casing *CasingTable, drill *DrillTable) *Store {
	return &Store{casing: casing, drill: drill}
}

func (s *Store) Casing() (*CasingTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.casing == nil {
		return nil, ErrNotLoaded
	}
	return s.casing, nil
}

func (s *Store) Drill() (*DrillTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.drill == nil {
		return nil, ErrNotLoaded
	}
	return s.drill, nil
}

func (s *Store) SetCasing(t *CasingTable) {
	s.mu.Lock()
	s.casing = t
	s.mu.Unlock()
}

func (s *Store) SetDrill(t *DrillTable) {
	s.mu.Lock()
	s.drill = t
	s.mu.Unlock()
}

// Snapshot is a Provider fixed to what another Provider returned when it was
// pinned, errors included.
type Snapshot struct {
	casing    *CasingTable
	drill     *DrillTable
	casingErr error
	drillErr  error
}

// Pin reads both tables from p once.
func Pin(p Provider) Snapshot {
	var s Snapshot
	s.casing, s.casingErr = p.Casing()
	s.drill, s.drillErr = p.Drill()
	return s
}

func (s Snapshot) Casing() (*CasingTable, error) { return s.casing, s.casingErr }

func (s Snapshot) Drill() (*DrillTable, error) { return s.drill, s.drillErr }
