// Package record stores the per-tick statistics of simulation runs. It only
// ever writes run output; nothing here feeds state back into a world.
package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sugarscape/internal/sims/sugarscape"
)

// RunInfo identifies one run and the configuration it was started with.
type RunInfo struct {
	ID        string            `json:"id" db:"id"`
	StartedAt time.Time         `json:"started_at" db:"started_at"`
	Config    sugarscape.Config `json:"config" db:"-"`
}

// NewRunInfo stamps a fresh run identifier.
func NewRunInfo(cfg sugarscape.Config) RunInfo {
	return RunInfo{ID: uuid.NewString(), StartedAt: time.Now().UTC(), Config: cfg}
}

// Recorder receives one Begin, any number of Record calls, then Close.
type Recorder interface {
	Begin(ctx context.Context, run RunInfo) error
	Record(ctx context.Context, st sugarscape.Stats) error
	Close() error
}

// New returns the recorder backend for kind: "", "memory", "sqlite" or "jsonl".
func New(kind, path string) (Recorder, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("sqlite recorder requires a path")
		}
		return OpenSQLite(path)
	case "jsonl":
		if path == "" {
			return nil, fmt.Errorf("jsonl recorder requires a path")
		}
		return NewJSONL(path), nil
	default:
		return nil, fmt.Errorf("unsupported recorder backend: %s", kind)
	}
}
