// Package web serves the embedded desktop shell page.
package web

import (
	_ "embed"
	"net/http"
	"strings"
)

//go:embed os.html
var osTemplate string

// Branding fills the placeholders in the embedded shell template.
type Branding struct {
	OSName       string
	OSIcon       string
	APIBase      string
	TerminalIcon string
	FolderIcon   string
	SettingsIcon string
	LogoutIcon   string
}

// Handler returns an http.Handler serving the desktop shell with the given
// branding baked in. Substitution happens once at construction.
func Handler(b Branding) http.Handler {
	page := strings.NewReplacer(
		"{{OS_NAME}}", b.OSName,
		"{{OS_ICON}}", b.OSIcon,
		"{{API_BASE}}", b.APIBase,
		"{{TERMINAL_ICON}}", b.TerminalIcon,
		"{{FOLDER_ICON}}", b.FolderIcon,
		"{{SETTINGS_ICON}}", b.SettingsIcon,
		"{{LOGOUT_ICON}}", b.LogoutIcon,
	).Replace(osTemplate)
	body := []byte(page)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})
}
