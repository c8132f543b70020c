package record

import (
	"context"
	"sync"

	"sugarscape/internal/sims/sugarscape"
)

// Memory keeps runs in process.
type Memory struct {
	mu    sync.Mutex
	runs  map[string]*sugarscape.Series
	order []RunInfo
	last  string
}

// NewMemory returns an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{runs: map[string]*sugarscape.Series{}}
}

func (m *Memory) Begin(_ context.Context, run RunInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = &sugarscape.Series{}
	m.order = append(m.order, run)
	m.last = run.ID
	return nil
}

// Record appends to the most recently begun run.
func (m *Memory) Record(_ context.Context, st sugarscape.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.runs[m.last]; ok {
		s.Add(st)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Runs lists the begun runs in order.
func (m *Memory) Runs() []RunInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunInfo(nil), m.order...)
}

// Series returns the history recorded for a run.
func (m *Memory) Series(id string) (sugarscape.Series, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.runs[id]
	if !ok {
		return sugarscape.Series{}, false
	}
	return sugarscape.Series{Points: append([]sugarscape.Stats(nil), s.Points...)}, true
}
