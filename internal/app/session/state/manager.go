package state

import (
	"sync"

	"github.com/osa030/harmony/internal/app/source"
	"github.com/osa030/harmony/internal/domain/playlist"
)

// Manager manages session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Session identity
	sessionID string

	// Active mode and loaded sources
	mode    source.Mode
	sources source.Sources

	// Staleness guard
	generations map[Scope]uint64
}

// New creates a new state manager in static mode.
func New(sessionID string) *Manager {
	return &Manager{
		sessionID:   sessionID,
		mode:        source.ModeStatic,
		generations: make(map[Scope]uint64),
	}
}

// GetSessionID returns the session ID.
func (m *Manager) GetSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// GetMode returns the active mode.
func (m *Manager) GetMode() source.Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// SetMode sets the active mode and returns the resolved active sequence.
func (m *Manager) SetMode(mode source.Mode) playlist.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	return source.Resolve(m.mode, m.sources)
}

// GetSources returns the loaded sources.
func (m *Manager) GetSources() source.Sources {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sources
}

// ClearPersonal drops the personal list, invalidates in-flight personal
// fetches and falls back to static mode. It returns the resolved sequence.
func (m *Manager) ClearPersonal() playlist.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources.Personal = nil
	m.generations[ScopePersonal]++
	m.mode = source.ModeStatic
	return source.Resolve(m.mode, m.sources)
}

// Begin starts a load of scope and returns its token. Any older token of the
// same scope stops being current.
func (m *Manager) Begin(scope Scope) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[scope]++
	return Token{Scope: scope, Generation: m.generations[scope]}
}

// isCurrentLocked reports whether token belongs to the latest load of its
// scope. Must be called with m.mu held.
func (m *Manager) isCurrentLocked(token Token) bool {
	return m.generations[token.Scope] == token.Generation
}

// Commit applies update to the sources when token is still current. It
// returns the active mode and resolved sequence after the update, and false
// when the result was stale and discarded.
func (m *Manager) Commit(token Token, update func(s *source.Sources)) (source.Mode, playlist.Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isCurrentLocked(token) {
		return m.mode, playlist.Playlist{}, false
	}
	update(&m.sources)
	return m.mode, source.Resolve(m.mode, m.sources), true
}
