package testutil

import (
	"sync"
)

// Surface is an in-memory browser.Surface that records what the host asks
// of it.
type Surface struct {
	mu        sync.Mutex
	loaded    []string
	history   bool
	backs     int
	stops     int
	closed    bool
	closeHits int
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Load(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = append(s.loaded, url)
}

func (s *Surface) StopLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

func (s *Surface) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

func (s *Surface) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backs++
}

func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.closeHits++
}

// SetHistory controls what CanGoBack reports.
func (s *Surface) SetHistory(canGoBack bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = canGoBack
}

// Loaded returns every URL loaded so far.
func (s *Surface) Loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loaded...)
}

// Closed reports whether Close was called, and how often.
func (s *Surface) Closed() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed, s.closeHits
}

// Backs returns how often GoBack was called.
func (s *Surface) Backs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backs
}

// Stops returns how often StopLoading was called.
func (s *Surface) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
