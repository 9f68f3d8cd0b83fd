package service

import (
	"context"
	"log/slog"
	"marksentry/internal/model"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	form     *Form
	lastSeen time.Time
}

// SessionService keeps one Form per browser session. Records never leave the
// session they were entered in.
type SessionService struct {
	prefix string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	sessions     map[string]*session
	sessionsLock sync.RWMutex

	recordListeners map[string]map[chan model.StudentRecord]bool
	listenerLock    sync.RWMutex

	onChange func(active int)
}

func NewSessionService(prefix string, ttl time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		prefix:          prefix,
		ttl:             ttl,
		now:             time.Now,
		logger:          logger.With(slog.String("component", "sessions")),
		sessions:        make(map[string]*session),
		recordListeners: make(map[string]map[chan model.StudentRecord]bool),
	}
}

// OnChange registers a callback invoked with the number of live sessions
// whenever it changes.
func (s *SessionService) OnChange(fn func(active int)) {
	s.onChange = fn
}

// Create starts a fresh session with an empty form.
func (s *SessionService) Create() (string, *Form) {
	id := uuid.NewString()
	form := NewForm(s.prefix)

	s.sessionsLock.Lock()
	s.sessions[id] = &session{form: form, lastSeen: s.now()}
	active := len(s.sessions)
	s.sessionsLock.Unlock()

	s.notify(active)
	s.logger.Debug("session created", slog.String("session_id", id))
	return id, form
}

// Get returns the form of a live session and marks it as seen.
func (s *SessionService) Get(id string) (*Form, bool) {
	s.sessionsLock.Lock()
	defer s.sessionsLock.Unlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.form, true
}

// Add applies an entry to the session's form and broadcasts the new record to
// the session's listeners.
func (s *SessionService) Add(id, code, marks string, section model.Section) (AddResult, error) {
	form, ok := s.Get(id)
	if !ok {
		return AddResult{}, ErrSessionNotFound
	}

	res := form.AddRecord(code, marks, section)
	if res.OK {
		s.broadcast(id, res.Record)
	}
	return res, nil
}

// Active returns the number of live sessions.
func (s *SessionService) Active() int {
	s.sessionsLock.RLock()
	defer s.sessionsLock.RUnlock()
	return len(s.sessions)
}

// RegisterListener subscribes ch to records added to session id. The channel
// is closed if the session expires while registered.
func (s *SessionService) RegisterListener(id string, ch chan model.StudentRecord) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	if s.recordListeners[id] == nil {
		s.recordListeners[id] = make(map[chan model.StudentRecord]bool)
	}
	s.recordListeners[id][ch] = true
}

func (s *SessionService) UnregisterListener(id string, ch chan model.StudentRecord) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	delete(s.recordListeners[id], ch)
	if len(s.recordListeners[id]) == 0 {
		delete(s.recordListeners, id)
	}
}

// closeListeners closes and forgets every listener of the given sessions.
func (s *SessionService) closeListeners(ids []string) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	for _, id := range ids {
		for ch := range s.recordListeners[id] {
			close(ch)
		}
		delete(s.recordListeners, id)
	}
}

func (s *SessionService) broadcast(id string, rec model.StudentRecord) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.recordListeners[id] {
		select {
		case listener <- rec:
		default:
			// listener not ready
		}
	}
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. Listener channels of dropped sessions are closed.
func (s *SessionService) Sweep(now time.Time) int {
	s.sessionsLock.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	active := len(s.sessions)
	s.sessionsLock.Unlock()

	removed := len(expired)
	s.closeListeners(expired)

	if removed > 0 {
		s.notify(active)
		s.logger.Info("expired sessions removed",
			slog.Int("removed", removed),
			slog.Int("active", active))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *SessionService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Sweep(t)
		}
	}
}

func (s *SessionService) notify(active int) {
	if s.onChange != nil {
		s.onChange(active)
	}
}
