package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/harmony/internal/app/source"
	"github.com/osa030/harmony/internal/domain/track"
)

func setPersonal(link string) func(*source.Sources) {
	return func(s *source.Sources) {
		s.Personal = []track.Track{track.Pending(link, track.OriginPersonal)}
	}
}

func TestManager_Defaults(t *testing.T) {
	m := New("session-1")

	assert.Equal(t, "session-1", m.GetSessionID())
	assert.Equal(t, source.ModeStatic, m.GetMode())
	assert.True(t, m.SetMode(source.ModeStatic).IsEmpty())
}

func TestManager_SetModeResolves(t *testing.T) {
	m := New("s")
	m.Commit(m.Begin(ScopeStatic), func(s *source.Sources) {
		s.Static = []track.Track{track.Pending("https://y/watch?v=S", track.OriginStatic)}
	})
	m.Commit(m.Begin(ScopeAdHoc), func(s *source.Sources) {
		s.AdHocSingle = track.Pending("https://y/watch?v=A", track.OriginAdHocSingle)
	})

	p := m.SetMode(source.ModeSingle)
	assert.Equal(t, []string{"https://y/watch?v=A"}, p.Links())

	p = m.SetMode(source.ModeStatic)
	assert.Equal(t, []string{"https://y/watch?v=S"}, p.Links())
}

func TestManager_StaleCommitIsDiscarded(t *testing.T) {
	m := New("s")
	m.SetMode(source.ModePersonal)

	older := m.Begin(ScopePersonal)
	newer := m.Begin(ScopePersonal)

	_, _, ok := m.Commit(older, setPersonal("https://y/watch?v=OLD"))
	assert.False(t, ok)
	assert.Empty(t, m.GetSources().Personal)

	mode, p, ok := m.Commit(newer, setPersonal("https://y/watch?v=NEW"))
	assert.True(t, ok)
	assert.Equal(t, source.ModePersonal, mode)
	assert.Equal(t, []string{"https://y/watch?v=NEW"}, p.Links())
}

func TestManager_ScopesAreIndependent(t *testing.T) {
	m := New("s")
	static := m.Begin(ScopeStatic)
	m.Begin(ScopeAdHoc)
	m.Begin(ScopePersonal)

	_, _, ok := m.Commit(static, func(s *source.Sources) {})
	assert.True(t, ok)
}

func TestManager_ClearPersonal(t *testing.T) {
	m := New("s")
	m.Commit(m.Begin(ScopePersonal), setPersonal("https://y/watch?v=P"))
	m.SetMode(source.ModePersonal)
	inFlight := m.Begin(ScopePersonal)

	p := m.ClearPersonal()

	assert.Equal(t, source.ModeStatic, m.GetMode())
	assert.True(t, p.IsEmpty())
	assert.Empty(t, m.GetSources().Personal)

	_, _, ok := m.Commit(inFlight, setPersonal("https://y/watch?v=LATE"))
	assert.False(t, ok)
	assert.Empty(t, m.GetSources().Personal)
}
