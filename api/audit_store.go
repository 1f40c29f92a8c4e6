package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ceciliaos/ceciliad/storage"
)

type trailAction string

const (
	trailActionRegister        trailAction = "register"
	trailActionLogin           trailAction = "login"
	trailActionLogout          trailAction = "logout"
	trailActionCommandExecuted trailAction = "command_executed"
	trailActionCommandDenied   trailAction = "command_denied"
)

// AuditEntry is one persisted record in a user's audit trail.
type AuditEntry struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// auditTrail persists audit entries alongside the slog stream so the trail
// survives restarts and can be queried per user.
type auditTrail struct {
	repo storage.Repository
}

func newAuditTrail(repo storage.Repository) *auditTrail {
	return &auditTrail{repo: repo}
}

// append writes a trail entry. Failures are swallowed: the trail is
// best-effort and must never fail the request that produced it.
func (t *auditTrail) append(username string, action trailAction, detail string) {
	entry := AuditEntry{
		ID:        uuid.NewString(),
		Username:  username,
		Action:    string(action),
		Detail:    detail,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = t.repo.Put(storage.CollectionAudit, entry.ID, data)
}

// list returns a user's trail entries, newest first.
func (t *auditTrail) list(username string) ([]AuditEntry, error) {
	ids, err := t.repo.List(storage.CollectionAudit)
	if err != nil {
		if errors.Is(err, storage.ErrCollectionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entries := make([]AuditEntry, 0, len(ids))
	for _, id := range ids {
		data, err := t.repo.Get(storage.CollectionAudit, id)
		if err != nil {
			continue
		}
		var entry AuditEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if entry.Username != username {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
	return entries, nil
}

// ListAudit handles GET /audit: the calling user's own trail.
func (a *API) ListAudit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	entries, err := a.trail.list(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}
	if entries == nil {
		entries = []AuditEntry{}
	}
	writeJSON(w, http.StatusOK, AuditListResponse{Entries: entries})
}
