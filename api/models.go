package api

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned from POST /auth/register and POST /auth/login.
type AuthResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// VerifyResponse is returned from POST /auth/verify.
type VerifyResponse struct {
	Valid     bool   `json:"valid"`
	Username  string `json:"username,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// ExecRequest is the JSON body for POST /terminal/exec.
type ExecRequest struct {
	Command string `json:"command"`
}

// ExecResponse is returned from POST /terminal/exec.
type ExecResponse struct {
	Output   string `json:"output"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ListFilesResponse is returned from GET /files/list.
type ListFilesResponse struct {
	Path    string      `json:"path"`
	Entries []FileEntry `json:"entries"`
}

// FileEntry describes one name inside a directory listing.
type FileEntry struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
}

// GetFileResponse is returned from GET /files/get.
type GetFileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// SaveFileRequest is the JSON body for POST /files/save.
type SaveFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DeleteFileRequest is the JSON body for POST /files/delete.
type DeleteFileRequest struct {
	Path string `json:"path"`
}

// RenderMarkdownRequest is the JSON body for POST /markdown/render.
type RenderMarkdownRequest struct {
	Markdown string `json:"markdown"`
}

// RenderMarkdownResponse is returned from POST /markdown/render.
type RenderMarkdownResponse struct {
	HTML string `json:"html"`
}

// AuditListResponse is returned from GET /audit.
type AuditListResponse struct {
	Entries []AuditEntry `json:"entries"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}
