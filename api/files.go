package api

import (
	"log/slog"
	"net/http"
)

// ListFiles handles GET /files/list?path=...
func (a *API) ListFiles(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	user, err := a.creds.Get(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}

	display, entries, err := a.files.List(user.HomeDir, r.URL.Query().Get("path"))
	if err != nil {
		mapError(w, err)
		return
	}

	out := make([]FileEntry, len(entries))
	for i, e := range entries {
		out[i] = FileEntry{Name: e.Name, Type: e.Type, Size: e.Size, Modified: e.Modified}
	}
	writeJSON(w, http.StatusOK, ListFilesResponse{Path: display, Entries: out})
}

// GetFile handles GET /files/get?path=...
func (a *API) GetFile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	user, err := a.creds.Get(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}

	target := r.URL.Query().Get("path")
	if target == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	data, err := a.files.Read(user.HomeDir, target)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetFileResponse{Path: target, Content: string(data)})
}

// SaveFile handles POST /files/save.
func (a *API) SaveFile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[SaveFileRequest](w, r, maxFileBodySize)
	if !ok {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	sess := sessionFromContext(r.Context())
	user, err := a.creds.Get(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}

	if err := a.files.Save(user.HomeDir, req.Path, []byte(req.Content)); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditFileSaved, r, sess.Username, slog.String("path", req.Path))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DeleteFile handles POST /files/delete.
func (a *API) DeleteFile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[DeleteFileRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	sess := sessionFromContext(r.Context())
	user, err := a.creds.Get(sess.Username)
	if err != nil {
		mapError(w, err)
		return
	}

	if err := a.files.Delete(user.HomeDir, req.Path); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditFileDeleted, r, sess.Username, slog.String("path", req.Path))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
