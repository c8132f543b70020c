package record

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"sugarscape/internal/sims/sugarscape"
)

// Entry is one line of a JSONL run log. Kind is "run" for the header written
// by Begin and "tick" for every recorded tick.
type Entry struct {
	Kind  string            `json:"kind"`
	Run   string            `json:"run"`
	Info  *RunInfo          `json:"info,omitempty"`
	Stats *sugarscape.Stats `json:"stats,omitempty"`
}

// JSONL appends zstd-compressed JSON lines to a single file. The file is
// opened on first write.
type JSONL struct {
	path string

	mu  sync.Mutex
	run string
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

func (j *JSONL) Begin(_ context.Context, run RunInfo) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.run = run.ID
	return j.writeLocked(Entry{Kind: "run", Run: run.ID, Info: &run})
}

func (j *JSONL) Record(_ context.Context, st sugarscape.Stats) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.run == "" {
		return errors.New("record before begin")
	}
	return j.writeLocked(Entry{Kind: "tick", Run: j.run, Stats: &st})
}

func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	var err error
	if j.w != nil {
		err = j.w.Flush()
	}
	if j.enc != nil {
		if cerr := j.enc.Close(); err == nil {
			err = cerr
		}
		j.enc = nil
	}
	if j.f != nil {
		if cerr := j.f.Close(); err == nil {
			err = cerr
		}
		j.f = nil
	}
	j.w = nil
	return err
}

func (j *JSONL) writeLocked(v Entry) error {
	if j.w == nil {
		if err := j.openLocked(); err != nil {
			return err
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *JSONL) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 64*1024)
	return nil
}

// ReadJSONL decodes every entry of a log written by JSONL.
func ReadJSONL(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
