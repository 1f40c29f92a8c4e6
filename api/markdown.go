package api

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders GitHub-flavored markdown. Raw HTML in the source is escaped;
// the desktop shell injects the result into the Markdown Viewer app.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown handles POST /markdown/render.
func (a *API) RenderMarkdown(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[RenderMarkdownRequest](w, r, maxFileBodySize)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(req.Markdown), &buf); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render markdown")
		return
	}
	writeJSON(w, http.StatusOK, RenderMarkdownResponse{HTML: buf.String()})
}
