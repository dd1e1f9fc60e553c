// Package history records completed install runs.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
)

const (
	// FileName is the name of the history file in the state directory.
	FileName = "history.json"
	// Version is the current history file schema version.
	Version = "1"
)

// Run is one completed install run.
type Run struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Mode       installer.Mode    `json:"mode"`
	Entries    []installer.Entry `json:"entries"`
}

// NewRun creates a Run with a fresh ID from a completed report.
func NewRun(started, finished time.Time, mode installer.Mode, r *installer.Report) Run {
	return Run{
		ID:         uuid.New().String(),
		StartedAt:  started,
		FinishedAt: finished,
		Mode:       mode,
		Entries:    r.Entries(),
	}
}

// Report rebuilds the report of the run.
func (r Run) Report() *installer.Report {
	return installer.NewReport(r.Entries)
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type file struct {
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Store manages the history file.
type Store struct {
	dir   string
	limit int
	mu    sync.Mutex
}

// NewStore creates a store in dir that keeps at most limit runs. A
// non-positive limit keeps everything.
func NewStore(dir string, limit int) *Store {
	return &Store{dir: dir, limit: limit}
}

// Path returns the path to the history file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load returns all runs, oldest first.
func (s *Store) Load() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadInternal()
}

// loadInternal loads runs without locking (caller must hold lock).
func (s *Store) loadInternal() ([]Run, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if f.Runs == nil {
		f.Runs = []Run{}
	}
	return f.Runs, nil
}

// Append adds a run and evicts the oldest runs beyond the limit.
func (s *Store) Append(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.loadInternal()
	if err != nil {
		return err
	}

	runs = append(runs, run)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].FinishedAt.Before(runs[j].FinishedAt)
	})
	if s.limit > 0 && len(runs) > s.limit {
		runs = runs[len(runs)-s.limit:]
	}

	return s.saveInternal(runs)
}

// Latest returns the most recent run.
func (s *Store) Latest() (Run, bool, error) {
	runs, err := s.Load()
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[len(runs)-1], true, nil
}

// Clear removes all recorded runs.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

// saveInternal writes runs without locking (caller must hold lock).
func (s *Store) saveInternal(runs []Run) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(file{Version: Version, Runs: runs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := atomic.WriteFile(s.Path(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save history file: %w", err)
	}
	return nil
}
