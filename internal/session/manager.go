package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

// ErrSessionNotFound reports an unknown or already-evicted session id.
var ErrSessionNotFound = errors.New("session not found")

const (
	DefaultMaxMessages   = 30
	DefaultIdleTimeout   = 15 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// Session is one in-memory conversation. Messages are chronological and
// capped; the oldest turns are dropped first.
type Session struct {
	ID           string
	Messages     []models.Message
	CreatedAt    time.Time
	LastActivity time.Time
}

// Options tunes a Manager. Zero values fall back to the defaults above.
type Options struct {
	MaxMessages   int
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	// Now is the clock source, overridable in tests.
	Now func() time.Time
}

// Manager holds short-lived conversation buffers so multi-turn chats can be
// replayed to a stateless model call. State is process-local and volatile.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxMessages   int
	idleTimeout   time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// NewManager builds a conversation store; pass one instance per assistant
// surface instead of sharing a package singleton.
func NewManager(opts Options) *Manager {
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = DefaultMaxMessages
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions:      make(map[string]*Session),
		maxMessages:   opts.MaxMessages,
		idleTimeout:   opts.IdleTimeout,
		sweepInterval: opts.SweepInterval,
		now:           opts.Now,
	}
}

// GetOrCreate returns the session for id, refreshing its activity timestamp.
// An empty or unknown id mints a fresh session; evicted ids are never
// revived. The second return reports whether a new session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	now := m.now()

	if id != "" {
		m.mu.Lock()
		if se, ok := m.sessions[id]; ok {
			se.LastActivity = now
			m.mu.Unlock()
			return se, false
		}
		m.mu.Unlock()
	}

	se := &Session{
		ID:           m.mintID(now),
		Messages:     make([]models.Message, 0, 8),
		CreatedAt:    now,
		LastActivity: now,
	}
	m.mu.Lock()
	m.sessions[se.ID] = se
	m.mu.Unlock()
	return se, true
}

// AddMessage appends a turn to the session. An unknown id is reported back to
// the caller instead of being silently dropped here.
func (m *Manager) AddMessage(id string, role models.Role, content string) error {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	se, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	se.Messages = append(se.Messages, models.Message{
		Role:      role,
		Content:   content,
		CreatedAt: now,
	})
	if overflow := len(se.Messages) - m.maxMessages; overflow > 0 {
		se.Messages = append(se.Messages[:0], se.Messages[overflow:]...)
	}
	se.LastActivity = now
	return nil
}

// History returns the prompt payload for one model call: the system prompt
// followed by the retained turns in order. Unknown ids yield just the system
// prompt.
func (m *Manager) History(id, systemPrompt string) []models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := []models.Message{{Role: models.RoleSystem, Content: systemPrompt}}
	se, ok := m.sessions[id]
	if !ok {
		return history
	}
	return append(history, se.Messages...)
}

// Messages returns a copy of the retained turns for one session.
func (m *Manager) Messages(id string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	se, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]models.Message, len(se.Messages))
	copy(out, se.Messages)
	return out, nil
}

// Remove drops a session immediately. Removing an unknown id is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper runs the idle-eviction sweep until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Sweep evicts every session idle beyond the timeout and returns how many
// were removed. O(live sessions) per pass.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	evicted := 0
	for id, se := range m.sessions {
		if se.LastActivity.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if evicted > 0 {
		zap.L().Info("session sweep",
			zap.Int("evicted", evicted),
			zap.Int("live", remaining),
		)
	}
	return evicted
}

// mintID builds an opaque session token: creation timestamp plus a random
// hex suffix. Unguessable enough for casual use, not a credential.
func (m *Manager) mintID(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// rand failure is effectively fatal elsewhere; fall back to clock bits
		return fmt.Sprintf("s_%d", now.UnixNano())
	}
	return fmt.Sprintf("s_%d_%s", now.UnixMilli(), hex.EncodeToString(buf))
}
