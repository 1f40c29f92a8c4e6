package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ceciliaos/ceciliad/policy"
	"github.com/ceciliaos/ceciliad/shell"
)

// ExecCommand handles POST /terminal/exec.
//
// The policy gate decides on the leading token of the command line. `help`
// is answered directly with the sorted allow-list and never reaches the
// runner. The gate re-validates the token even though AuthMiddleware
// already did: authorization decisions never trust upstream checks.
func (a *API) ExecCommand(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[ExecRequest](w, r, maxExecBodySize)
	if !ok {
		return
	}

	name, ok := shell.SplitCommand(req.Command)
	if !ok {
		writeError(w, http.StatusBadRequest, "empty command")
		return
	}

	sess := sessionFromContext(r.Context())

	if name == "help" {
		cmds := a.policy.AllowedCommands()
		writeJSON(w, http.StatusOK, ExecResponse{
			Output: "Available commands: " + strings.Join(cmds, ", "),
		})
		return
	}

	token, _ := bearerToken(r)
	decision := a.gate.Authorize(token, name)
	if !decision.Allowed {
		a.audit.logFailure(AuditCommandDenied, r, string(decision.Reason),
			slog.String("username", sess.Username),
			slog.String("command", name))
		a.trail.append(sess.Username, trailActionCommandDenied, name)
		writeError(w, denyStatus(decision.Reason), denyMessage(decision.Reason, name))
		return
	}

	user, err := a.creds.Get(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}

	res, err := a.runner.Run(r.Context(), user.Username, user.HomeDir, req.Command)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "command execution failed")
		return
	}

	a.audit.logEvent(AuditCommandExecuted, r, sess.Username,
		slog.String("command", name),
		slog.Int("exit_code", res.ExitCode))
	a.trail.append(sess.Username, trailActionCommandExecuted, name)
	writeJSON(w, http.StatusOK, ExecResponse{
		Output:   res.Output,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	})
}

func denyStatus(reason policy.DenyReason) int {
	if reason == policy.DenyUnauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

func denyMessage(reason policy.DenyReason, name string) string {
	switch reason {
	case policy.DenyUnauthenticated:
		return "invalid or expired session"
	case policy.DenyBlocked:
		return "command blocked: " + name
	default:
		return "command not available: " + name + " (type 'help' for a list)"
	}
}
