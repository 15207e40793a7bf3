/*
sessions.go - Navigator sessions and their idle-expiry janitor

PURPOSE:
  Each UI session owns one navigation.Navigator. The navigator is stateful
  and not safe for concurrent use, so every session carries its own mutex:
  interleaved next/prev/range calls from the same client are applied one at
  a time, and different sessions never contend.

EXPIRY:
  Sessions idle for longer than TTL are dropped by a background janitor
  that ticks every CheckInterval.

USAGE:
  sessions := NewSessionRegistry(12 * time.Hour)
  sessions.Start()
  defer sessions.Stop()

SEE ALSO:
  - navigation/navigator.go: the state machine
  - handlers.go: /api/navigator endpoints
*/
package api

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/warp/shiftbook/calendar"
	"github.com/warp/shiftbook/navigation"
)

// Session is one client's navigator.
type Session struct {
	ID string

	mu  sync.Mutex
	nav *navigation.Navigator

	// unix nanos; touched without s.mu so lookups never wait on a busy Do
	lastUsed atomic.Int64
}

// Do runs fn with exclusive access to the navigator.
func (s *Session) Do(fn func(nav *navigation.Navigator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.nav)
}

// SessionRegistry holds live sessions.
type SessionRegistry struct {
	TTL           time.Duration
	CheckInterval time.Duration
	Now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewSessionRegistry creates a registry; ttl <= 0 disables expiry.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		TTL:           ttl,
		CheckInterval: 10 * time.Minute,
		Now:           time.Now,
		sessions:      make(map[string]*Session),
	}
}

// Create starts a new session anchored on today.
func (r *SessionRegistry) Create(today calendar.Date) *Session {
	return r.add(navigation.New(today))
}

// Resume starts a session from a saved navigator state.
func (r *SessionRegistry) Resume(st navigation.State) (*Session, error) {
	nav, err := navigation.Restore(st)
	if err != nil {
		return nil, err
	}
	return r.add(nav), nil
}

func (r *SessionRegistry) add(nav *navigation.Navigator) *Session {
	s := &Session{ID: uuid.NewString(), nav: nav}
	s.lastUsed.Store(r.Now().UnixNano())
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session and marks it used.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.lastUsed.Store(r.Now().UnixNano())
	return s, true
}

// Delete ends a session.
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len is the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than TTL and returns how many went.
func (r *SessionRegistry) Sweep() int {
	if r.TTL <= 0 {
		return 0
	}
	cutoff := r.Now().Add(-r.TTL).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.lastUsed.Load() < cutoff {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// =============================================================================
// JANITOR
// =============================================================================

// Start begins periodic sweeping.
func (r *SessionRegistry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.TTL <= 0 || r.ticker != nil {
		return
	}
	r.ticker = time.NewTicker(r.CheckInterval)
	r.stop = make(chan struct{})
	r.wg.Add(1)
	go r.run(r.ticker, r.stop)

	log.Printf("[Sessions] Janitor started: ttl=%v interval=%v", r.TTL, r.CheckInterval)
}

// Stop halts the janitor and waits for it to exit.
func (r *SessionRegistry) Stop() {
	r.mu.Lock()
	ticker, stop := r.ticker, r.stop
	r.ticker, r.stop = nil, nil
	r.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(stop)
	r.wg.Wait()
	log.Println("[Sessions] Janitor stopped")
}

func (r *SessionRegistry) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer r.wg.Done()
	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("[Sessions] Expired %d idle session(s)", n)
			}
		case <-stop:
			return
		}
	}
}
