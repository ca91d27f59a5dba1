package ui

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/player"
	"github.com/tartampluch/go-thoinoi/internal/rsvp"
)

// Session is one visitor's page state. Nothing in it outlives the session.
type Session struct {
	ID     uuid.UUID
	Form   *rsvp.Form
	Player *player.Player
	Audio  *player.CommandQueue

	mu       sync.Mutex // Guards nav and lastSeen.
	nav      *gallery.Navigator
	lastSeen time.Time
}

// Gallery runs fn with exclusive access to the session's navigator.
func (s *Session) Gallery(fn func(nav *gallery.Navigator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.nav)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore keeps sessions in memory, keyed by a cookie.
type SessionStore struct {
	Clock engine.Clock
	TTL   time.Duration

	items     []gallery.Item
	loop      bool
	submitter rsvp.Submitter

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionStore creates a store whose sessions browse items, play music
// with the given loop setting, and hand RSVPs to submitter.
func NewSessionStore(items []gallery.Item, loop bool, submitter rsvp.Submitter) (*SessionStore, error) {
	if _, err := gallery.NewNavigator(items); err != nil {
		return nil, err
	}
	return &SessionStore{
		Clock:     engine.RealClock{},
		TTL:       config.SessionIdleTTL,
		items:     items,
		loop:      loop,
		submitter: submitter,
		sessions:  make(map[uuid.UUID]*Session),
	}, nil
}

// Items returns the photo list shared by all sessions.
func (st *SessionStore) Items() []gallery.Item { return st.items }

// Len reports how many sessions are live.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Get returns the caller's session, creating it (and its cookie) on first visit
// or after it has been evicted.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) *Session {
	now := st.Clock.Now()

	if c, err := r.Cookie(config.SessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			st.mu.Lock()
			s, ok := st.sessions[id]
			st.mu.Unlock()
			if ok {
				s.touch(now)
				return s
			}
		}
	}

	s := st.newSession(now)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    s.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Debug(config.MsgSessionCreated,
		config.LogKeyComponent, config.CompSession,
		config.LogKeySession, s.ID.String(),
	)
	return s
}

func (st *SessionStore) newSession(now time.Time) *Session {
	// Items were checked in NewSessionStore.
	nav, _ := gallery.NewNavigator(st.items)
	audio := &player.CommandQueue{}
	return &Session{
		ID:       uuid.New(),
		Form:     rsvp.NewForm(st.submitter),
		Player:   player.New(audio, st.loop),
		Audio:    audio,
		nav:      nav,
		lastSeen: now,
	}
}

// Sweep evicts sessions idle for longer than TTL. Their forms are discarded
// so a submission still in flight completes as a no-op.
func (st *SessionStore) Sweep() int {
	cutoff := st.Clock.Now().Add(-st.TTL)

	st.mu.Lock()
	var evicted []*Session
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			evicted = append(evicted, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range evicted {
		s.Form.Discard()
	}
	return len(evicted)
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (st *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompSession)
	log.Debug(config.MsgJanitorStart)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgJanitorStop)
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.Info(config.MsgSessionsSwept, config.LogKeyCount, n)
			}
		}
	}
}
