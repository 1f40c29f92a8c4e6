package policy

import (
	"errors"

	"github.com/ceciliaos/ceciliad/session"
)

// DenyReason explains a Deny decision to the caller.
type DenyReason string

const (
	// DenyUnauthenticated means the session token was missing, unknown, or expired.
	DenyUnauthenticated DenyReason = "unauthenticated"
	// DenyBlocked means the command is on the block-list.
	DenyBlocked DenyReason = "blocked"
	// DenyNotAllowlisted means the command is on neither list; unknown
	// commands are denied by default.
	DenyNotAllowlisted DenyReason = "not_allowlisted"
)

// Decision is the outcome of an authorization check. When Allowed is
// false, Reason says why; when true, Session identifies the caller so the
// executor can confine the command to their home directory.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Session session.Session
}

func allow(s session.Session) Decision {
	return Decision{Allowed: true, Session: s}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Gate authorizes commands against the policy on behalf of sessions.
// Stateless beyond its two read-mostly dependencies; safe for concurrent
// use from independent requests.
type Gate struct {
	sessions *session.Manager
	policy   *Policy
}

// NewGate creates a Gate over the given session manager and policy.
func NewGate(sessions *session.Manager, policy *Policy) *Gate {
	return &Gate{sessions: sessions, policy: policy}
}

// Authorize decides execution eligibility for the leading token of a shell
// invocation. The block-list is consulted first and unconditionally, so a
// command appearing on both lists is still denied — a misconfigured
// allow-list cannot rescue a blocked command.
func (g *Gate) Authorize(token, command string) Decision {
	sess, err := g.sessions.Validate(token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			return deny(DenyUnauthenticated)
		}
		// Store failure: fail closed.
		return deny(DenyUnauthenticated)
	}
	return g.decide(sess, command)
}

func (g *Gate) decide(sess session.Session, command string) Decision {
	if g.policy.Blocked(command) {
		return deny(DenyBlocked)
	}
	if g.policy.Allowed(command) {
		return allow(sess)
	}
	return deny(DenyNotAllowlisted)
}
