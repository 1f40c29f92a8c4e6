package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerSubstitutesBranding(t *testing.T) {
	h := Handler(Branding{
		OSName:  "Cecilia",
		OSIcon:  "🌸",
		APIBase: "/api",
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Cecilia")
	assert.Contains(t, string(body), `const api = "/api"`)
	assert.NotContains(t, string(body), "{{OS_NAME}}")
	assert.NotContains(t, string(body), "{{API_BASE}}")
}

func TestHandlerOnlyServesRoot(t *testing.T) {
	srv := httptest.NewServer(Handler(Branding{OSName: "Cecilia"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/anything-else")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
