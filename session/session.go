// Package session keeps the most recent processing result of each browser
// session so chat questions can be grounded in it.
package session

import (
	"sync"
	"time"

	"vedalipi/metrics"

	"github.com/apex/log"
)

// Context is the extraction/translation/interpretation triple of one session.
type Context struct {
	SourceText     string
	TranslatedText string
	Interpretation string
}

// IsEmpty reports whether nothing has been processed yet.
func (c Context) IsEmpty() bool {
	return c.SourceText == "" && c.TranslatedText == "" && c.Interpretation == ""
}

// Latest is the ID under which the most recent result of any session is kept.
// Session cookies are UUIDs, so it never collides with one.
const Latest = "latest"

type entry struct {
	ctx      Context
	lastSeen time.Time
}

// Store holds one Context per session ID. Writes replace the whole record;
// concurrent uploads in the same session are last-write-wins.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	idleTTL time.Duration
	now     func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewStore creates a store that forgets sessions idle for longer than idleTTL.
// A zero idleTTL keeps sessions forever.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Get returns the context of session id, or an empty Context.
func (s *Store) Get(id string) Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Context{}
	}
	e.lastSeen = s.now()
	return e.ctx
}

// Set overwrites the context of session id.
func (s *Store) Set(id string, ctx Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &entry{ctx: ctx, lastSeen: s.now()}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
}

// Len returns the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evict drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Evict() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.entries)))
	return removed
}

// Start runs Evict periodically until Stop is called.
func (s *Store) Start(interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}
	s.stopChan = make(chan struct{})
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Evict(); n > 0 {
					log.Infof("Evicted %d idle sessions", n)
				}
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop halts the eviction loop started by Start.
func (s *Store) Stop() {
	if s.stopChan == nil {
		return
	}
	close(s.stopChan)
	s.wg.Wait()
	s.stopChan = nil
}
