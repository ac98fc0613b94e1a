package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/auth"
	"instalytics/pkg/logger"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()
	p, err := NewPool(filepath.Join(t.TempDir(), "sessions.json"), "", logger.NewTestLogger())
	require.NoError(t, err)
	return p
}

func TestPoolAddAndList(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "a", SessionID: "sa", CSRFToken: "ca"}))
	require.NoError(t, p.Add(&Session{Name: "b", SessionID: "sb", CSRFToken: "cb"}))

	sessions := p.List()
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].Name)
	assert.True(t, sessions[0].Active)
}

func TestPoolAddValidation(t *testing.T) {
	p := newTestPool(t)

	assert.Error(t, p.Add(nil))
	assert.Error(t, p.Add(&Session{SessionID: "s"}))
	assert.Error(t, p.Add(&Session{Name: "n"}))
}

func TestPoolNextPrefersFewestFailures(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "healthy", SessionID: "s1"}))
	require.NoError(t, p.Add(&Session{Name: "flaky", SessionID: "s2"}))

	require.NoError(t, p.RecordFailure("flaky"))

	s, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "healthy", s.Name)
}

func TestPoolNextRotatesByLastUsed(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "first", SessionID: "s1"}))
	require.NoError(t, p.Add(&Session{Name: "second", SessionID: "s2"}))

	s1, err := p.Next()
	require.NoError(t, err)
	s2, err := p.Next()
	require.NoError(t, err)

	// Equal failure counts rotate between the two sessions
	assert.NotEqual(t, s1.Name, s2.Name)
}

func TestPoolDeactivationAfterConsecutiveFailures(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "only", SessionID: "s"}))

	for i := 0; i < maxConsecutiveFailures; i++ {
		require.NoError(t, p.RecordFailure("only"))
	}

	_, err := p.Next()
	assert.ErrorIs(t, err, ErrNoActiveSessions)
}

func TestPoolSuccessReactivatesAndDecays(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "s", SessionID: "sid"}))
	for i := 0; i < maxConsecutiveFailures; i++ {
		require.NoError(t, p.RecordFailure("s"))
	}

	require.NoError(t, p.RecordSuccess("s"))

	session, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "s", session.Name)
	assert.True(t, session.Active)
	assert.Zero(t, session.ConsecutiveFailures)
	// One success decays the total failure count by one
	assert.Equal(t, maxConsecutiveFailures-1, session.FailureCount)
	assert.Equal(t, 1, session.SuccessCount)
}

func TestPoolFailuresInterruptedBySuccessDoNotDeactivate(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "s", SessionID: "sid"}))

	for i := 0; i < maxConsecutiveFailures-1; i++ {
		require.NoError(t, p.RecordFailure("s"))
	}
	require.NoError(t, p.RecordSuccess("s"))
	require.NoError(t, p.RecordFailure("s"))

	_, err := p.Next()
	assert.NoError(t, err)
}

func TestPoolPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	p1, err := NewPool(path, "", logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p1.Add(&Session{Name: "persisted", SessionID: "sid", CSRFToken: "c"}))
	require.NoError(t, p1.RecordFailure("persisted"))

	p2, err := NewPool(path, "", logger.NewTestLogger())
	require.NoError(t, err)

	sessions := p2.List()
	require.Len(t, sessions, 1)
	assert.Equal(t, "persisted", sessions[0].Name)
	assert.Equal(t, 1, sessions[0].FailureCount)
}

func TestPoolEncryptedPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	p1, err := NewPool(path, "hunter2", logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p1.Add(&Session{Name: "secret", SessionID: "sid"}))

	// Same passphrase loads it back
	p2, err := NewPool(path, "hunter2", logger.NewTestLogger())
	require.NoError(t, err)
	require.Len(t, p2.List(), 1)

	// Wrong passphrase fails
	_, err = NewPool(path, "wrong", logger.NewTestLogger())
	assert.Error(t, err)

	// Missing passphrase fails
	_, err = NewPool(path, "", logger.NewTestLogger())
	assert.Error(t, err)
}

func TestPoolRemove(t *testing.T) {
	p := newTestPool(t)

	require.NoError(t, p.Add(&Session{Name: "s", SessionID: "sid"}))
	require.NoError(t, p.Remove("s"))
	assert.Empty(t, p.List())

	assert.Error(t, p.Remove("s"))
}

func TestAccountLifecycleInPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	account := &auth.Account{
		Username:  "main",
		SessionID: "sid-main",
		CSRFToken: "csrf-main",
	}

	// Login path: the stored account joins the pool on disk
	p1, err := NewPool(path, "", logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, p1.Add(FromAccount(account)))

	// Scrape path: a fresh pool loaded from the same file hands it out
	p2, err := NewPool(path, "", logger.NewTestLogger())
	require.NoError(t, err)

	s, err := p2.Next()
	require.NoError(t, err)
	assert.Equal(t, "main", s.Name)
	assert.Equal(t, "sid-main", s.SessionID)
	assert.Equal(t, "csrf-main", s.CSRFToken)

	// Logout path: removal persists too
	require.NoError(t, p2.Remove("main"))

	p3, err := NewPool(path, "", logger.NewTestLogger())
	require.NoError(t, err)
	_, err = p3.Next()
	assert.ErrorIs(t, err, ErrNoActiveSessions)
}

func TestFromAccount(t *testing.T) {
	account := &auth.Account{
		Username:  "user",
		SessionID: "sid",
		CSRFToken: "csrf",
		UserAgent: "agent",
	}

	s := FromAccount(account)

	assert.Equal(t, "user", s.Name)
	assert.Equal(t, "sid", s.SessionID)
	assert.Equal(t, "csrf", s.CSRFToken)
	assert.True(t, s.Active)
}
