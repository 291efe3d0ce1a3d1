// Package cooldown tracks when each file was last remediated so the
// executor can suppress repeat dispatches inside the cooldown window.
package cooldown

import (
	"sync"
	"time"
)

// DefaultWindow is the minimum elapsed time before the same file may be
// remediated again.
const DefaultWindow = 24 * time.Hour

// Store maps file identifiers to their last-remediated timestamp.
// Entries are written only on successful dispatch and are never deleted:
// an entry older than the window reads as inactive (soft expiry), which
// keeps remediation history observable after the cooldown lapses.
type Store struct {
	mu sync.RWMutex

	window  time.Duration
	entries map[string]time.Time

	// now is injectable so tests can simulate elapsed time
	now func() time.Time
}

// NewStore creates a cooldown store with the given window.
// A non-positive window falls back to DefaultWindow.
func NewStore(window time.Duration) *Store {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{
		window:  window,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetClock overrides the store's time source (for tests).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Record marks a file as remediated at the current time.
func (s *Store) Record(file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[file] = s.now()
}

// Active reports whether the file is inside its cooldown window.
func (s *Store) Active(file string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.entries[file]
	if !ok {
		return false
	}
	return s.now().Sub(at) < s.window
}

// LastRemediated returns the last-remediated timestamp for a file, whether or
// not the cooldown has lapsed. The second result is false if the file was
// never remediated.
func (s *Store) LastRemediated(file string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.entries[file]
	return at, ok
}

// History returns a copy of all recorded entries, including expired ones.
func (s *Store) History() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]time.Time, len(s.entries))
	for file, at := range s.entries {
		out[file] = at
	}
	return out
}

// Window returns the configured cooldown window.
func (s *Store) Window() time.Duration {
	return s.window
}
