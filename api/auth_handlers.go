package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/homefs"
)

// Register handles POST /auth/register.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	if !a.registerOpen {
		writeError(w, http.StatusForbidden, "registration is disabled")
		return
	}

	req, ok := decodeJSON[RegisterRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	user, err := a.creds.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credstore.ErrDuplicateUser) {
			a.audit.logFailure(AuditRegisterFailure, r, "duplicate username",
				slog.String("username", req.Username))
		}
		mapError(w, err)
		return
	}
	if err := homefs.EnsureHome(user.HomeDir); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to provision home directory")
		return
	}

	sess, err := a.sessions.Create(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	a.audit.logEvent(AuditRegister, r, user.Username)
	a.trail.append(user.Username, trailActionRegister, "")
	writeJSON(w, http.StatusCreated, AuthResponse{
		Token:     sess.Token,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.Unix(),
	})
}

// Login handles POST /auth/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	clientIP := a.extractClientIP(r)
	if blocked, retryAfter := a.ipLimiter.check(clientIP); blocked {
		a.audit.logFailure(AuditLoginRateLimited, r, "ip rate limited",
			slog.String("client_ip", clientIP))
		writeRateLimited(w, retryAfter)
		return
	}
	if req.Username != "" {
		if blocked, retryAfter := a.loginLimiter.check(req.Username); blocked {
			a.audit.logFailure(AuditLoginRateLimited, r, "account rate limited",
				slog.String("username", req.Username))
			writeRateLimited(w, retryAfter)
			return
		}
	}

	user, err := a.creds.Verify(req.Username, req.Password)
	if err != nil {
		a.ipLimiter.recordFailure(clientIP)
		if req.Username != "" {
			a.loginLimiter.recordFailure(req.Username)
		}
		// The audit log distinguishes unknown users from bad passwords;
		// the response never does.
		reason := "invalid password"
		if errors.Is(err, credstore.ErrNotFound) {
			reason = "unknown user"
		}
		a.audit.logFailure(AuditLoginFailure, r, reason, slog.String("username", req.Username))
		mapError(w, err)
		return
	}
	a.ipLimiter.recordSuccess(clientIP)
	a.loginLimiter.recordSuccess(user.Username)

	if err := a.creds.TouchLastLogin(user.Username); err != nil {
		a.audit.logFailure(AuditLoginFailure, r, "failed to record last login",
			slog.String("username", user.Username))
	}
	sess, err := a.sessions.Create(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	a.audit.logEvent(AuditLoginSuccess, r, user.Username)
	a.trail.append(user.Username, trailActionLogin, "")
	writeJSON(w, http.StatusOK, AuthResponse{
		Token:     sess.Token,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.Unix(),
	})
}

// VerifySession handles POST /auth/verify. It reports whether the presented
// token maps to a live session without extending or consuming it.
func (a *API) VerifySession(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusOK, VerifyResponse{Valid: false})
		return
	}
	sess, err := a.sessions.Validate(token)
	if err != nil {
		writeJSON(w, http.StatusOK, VerifyResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid:     true,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.Unix(),
	})
}

// Logout handles POST /auth/logout. Revoking an unknown or already revoked
// token still succeeds.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	// Resolve the username first for the audit trail; revoke regardless.
	if sess, err := a.sessions.Validate(token); err == nil {
		a.audit.logEvent(AuditLogout, r, sess.Username)
		a.trail.append(sess.Username, trailActionLogout, "")
	}
	a.sessions.Revoke(token)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
