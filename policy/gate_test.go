package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/session"
)

func newTestGate(t *testing.T, opts ...session.Option) (*Gate, string) {
	t.Helper()
	mgr := session.NewManager(session.NewMemoryStore(), opts...)
	sess, err := mgr.Create(&credstore.User{Username: "alice", HomeDir: "/home/alice"})
	require.NoError(t, err)

	p, err := New([]string{"ls", "git"}, []string{"rm", "sudo"})
	require.NoError(t, err)
	return NewGate(mgr, p), sess.Token
}

func TestAuthorizeAllowed(t *testing.T) {
	gate, token := newTestGate(t)

	d := gate.Authorize(token, "ls")
	assert.True(t, d.Allowed)
	assert.Equal(t, "alice", d.Session.Username)
}

func TestAuthorizeBlocked(t *testing.T) {
	gate, token := newTestGate(t)

	d := gate.Authorize(token, "sudo")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyBlocked, d.Reason)
}

func TestAuthorizeUnlisted(t *testing.T) {
	gate, token := newTestGate(t)

	d := gate.Authorize(token, "curl")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyNotAllowlisted, d.Reason)
}

func TestAuthorizeUnknownToken(t *testing.T) {
	gate, _ := newTestGate(t)

	d := gate.Authorize("bogus-token", "ls")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyUnauthenticated, d.Reason)
}

func TestAuthorizeExpiredSession(t *testing.T) {
	clock := time.Now()
	gate, token := newTestGate(t,
		session.WithTTL(time.Second),
		session.WithClock(func() time.Time { return clock }),
	)

	clock = clock.Add(2 * time.Second)
	d := gate.Authorize(token, "ls")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyUnauthenticated, d.Reason)
}

func TestBlockWinsOverMisconfiguredAllow(t *testing.T) {
	// New rejects overlapping lists, but the decision order must still
	// fail closed for a policy assembled by hand.
	mgr := session.NewManager(session.NewMemoryStore())
	sess, err := mgr.Create(&credstore.User{Username: "alice"})
	require.NoError(t, err)

	p := &Policy{
		allow: map[string]struct{}{"rm": {}},
		block: map[string]struct{}{"rm": {}},
	}
	gate := NewGate(mgr, p)

	d := gate.Authorize(sess.Token, "rm")
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyBlocked, d.Reason)
}
