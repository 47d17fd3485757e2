package checkpoint

import (
	"sync"
	"time"
)

// Default save cadence: flush after this many completed questions or
// after this much time, whichever comes first.
const (
	DefaultSaveEvery    = 10
	DefaultSaveInterval = 30 * time.Second
)

// Saver batches entries into a record and persists it on a count- or
// time-based cadence. A single internal lock orders all appends and
// saves; combined with the atomic rename in Save, an older in-flight
// save can never overwrite a newer one.
type Saver struct {
	mu       sync.Mutex
	path     string
	record   Record
	every    int
	interval time.Duration
	pending  int
	lastSave time.Time
}

// NewSaver wraps an existing record (typically freshly loaded) with
// cadence-based persistence to path.
func NewSaver(path string, rec Record, every int, interval time.Duration) *Saver {
	if rec == nil {
		rec = Record{}
	}
	if every <= 0 {
		every = DefaultSaveEvery
	}
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Saver{
		path:     path,
		record:   rec,
		every:    every,
		interval: interval,
		lastSave: time.Now(),
	}
}

// Add merges one entry and saves when the cadence is due. Safe for
// concurrent use by runner workers.
func (s *Saver) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending += s.record.Merge(e)
	if s.pending >= s.every || time.Since(s.lastSave) >= s.interval {
		return s.saveLocked()
	}
	return nil
}

// Flush persists any pending entries immediately.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == 0 {
		return nil
	}
	return s.saveLocked()
}

// Snapshot returns a copy of the current record.
func (s *Saver) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Record, len(s.record))
	for id, e := range s.record {
		out[id] = e
	}
	return out
}

func (s *Saver) saveLocked() error {
	if err := Save(s.path, s.record); err != nil {
		return err
	}
	s.pending = 0
	s.lastSave = time.Now()
	return nil
}
