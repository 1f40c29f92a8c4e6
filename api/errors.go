package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/homefs"
	"github.com/ceciliaos/ceciliad/session"
	"github.com/ceciliaos/ceciliad/storage"
)

const (
	maxAuthBodySize = 4 << 10  // 4 KiB: usernames and passwords only
	maxExecBodySize = 16 << 10 // 16 KiB command lines
	maxFileBodySize = 2 << 20  // 2 MiB file saves and markdown bodies
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads and decodes a bounded JSON request body. On failure it
// writes the error response itself and returns ok=false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxSize int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, credstore.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, credstore.ErrDuplicateUser):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, credstore.ErrNotFound), errors.Is(err, credstore.ErrInvalidCredentials):
		// Unknown user and wrong password are indistinguishable to clients;
		// the audit log keeps the real reason.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
	case errors.Is(err, homefs.ErrOutsideHome):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, homefs.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, homefs.ErrNotDirectory):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
