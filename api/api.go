// Package api exposes the Cecilia OS backend over REST.
//
// The API wires the credential store, session manager, policy gate, command
// runner, and home file service behind a chi router. Handlers stay thin:
// they decode, delegate, and map domain errors onto HTTP statuses.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/homefs"
	"github.com/ceciliaos/ceciliad/policy"
	"github.com/ceciliaos/ceciliad/session"
	"github.com/ceciliaos/ceciliad/shell"
	"github.com/ceciliaos/ceciliad/storage"
)

// API holds the dependencies needed by the REST handlers.
type API struct {
	creds    *credstore.Store
	sessions *session.Manager
	gate     *policy.Gate
	policy   *policy.Policy
	runner   *shell.Runner
	files    *homefs.Service

	audit          *auditLogger
	trail          *auditTrail
	loginLimiter   *loginRateLimiter
	ipLimiter      *ipRateLimiter
	registerOpen   bool
	trustedProxies bool
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithRegistrationOpen controls whether POST /auth/register is served.
// Deployments that provision users via the CLI keep it closed.
func WithRegistrationOpen(open bool) Option {
	return func(a *API) {
		a.registerOpen = open
	}
}

// WithRunner overrides the command runner (tests substitute a short timeout).
func WithRunner(r *shell.Runner) Option {
	return func(a *API) {
		a.runner = r
	}
}

// WithTrustedProxy enables honoring X-Forwarded-For for client IPs. Leave
// off unless the server sits behind a proxy the operator controls.
func WithTrustedProxy(trusted bool) Option {
	return func(a *API) {
		a.trustedProxies = trusted
	}
}

// New creates a new API instance.
func New(repo storage.Repository, creds *credstore.Store, sessions *session.Manager, pol *policy.Policy, opts ...Option) *API {
	a := &API{
		creds:        creds,
		sessions:     sessions,
		gate:         policy.NewGate(sessions, pol),
		policy:       pol,
		runner:       shell.NewRunner(),
		files:        homefs.NewService(),
		trail:        newAuditTrail(repo),
		loginLimiter: newLoginRateLimiter(),
		ipLimiter:    newIPRateLimiter(),
		registerOpen: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/redoc",
	}, nil))

	r.Post("/auth/register", a.Register)
	r.Post("/auth/login", a.Login)
	r.Post("/auth/verify", a.VerifySession)
	r.Post("/auth/logout", a.Logout)

	r.With(a.AuthMiddleware).Post("/terminal/exec", a.ExecCommand)

	r.Route("/files", func(r chi.Router) {
		r.Use(a.AuthMiddleware)
		r.Get("/list", a.ListFiles)
		r.Get("/get", a.GetFile)
		r.Post("/save", a.SaveFile)
		r.Post("/delete", a.DeleteFile)
	})

	r.With(a.AuthMiddleware).Post("/markdown/render", a.RenderMarkdown)
	r.With(a.AuthMiddleware).Get("/audit", a.ListAudit)

	return r
}
