// Package web serves the dashboard's JSON API: the passphrase gate,
// per-panel endpoints, the archive view, and the export download. Every
// remote failure surfaces as visible panel state, never as a dead server.
package web

import (
	"log"
	"net/http"

	"github.com/mesh-intelligence/lifeos/internal/advisor"
	"github.com/mesh-intelligence/lifeos/internal/app"
	"github.com/mesh-intelligence/lifeos/internal/extract"
)

// Options configures a Server. Advisor and Extractor may be nil when the
// model API key is absent; the AI panels then report themselves disabled.
type Options struct {
	App        *app.App
	Advisor    *advisor.Advisor
	Extractor  *extract.Extractor
	Passphrase string
	Logger     *log.Logger
}

// Server holds all per-session state explicitly: the app service (which
// owns the cache), the session set, and the shared passphrase. No
// process-wide singletons.
type Server struct {
	app        *app.App
	advisor    *advisor.Advisor
	extractor  *extract.Extractor
	sessions   *sessionSet
	passphrase string
	logger     *log.Logger
}

// New creates a Server from options.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		app:        opts.App,
		advisor:    opts.Advisor,
		extractor:  opts.Extractor,
		sessions:   newSessionSet(),
		passphrase: opts.Passphrase,
		logger:     logger,
	}
}

// aiEnabled reports whether the AI-backed panels can run.
func (s *Server) aiEnabled() bool {
	return s.extractor != nil && s.advisor != nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("GET /api/summary", s.auth(s.handleSummary))
	mux.HandleFunc("GET /api/collections/{name}", s.auth(s.handleList))
	mux.HandleFunc("GET /api/archive/{name}", s.auth(s.handleArchive))

	mux.HandleFunc("POST /api/records", s.auth(s.handleCreate))
	mux.HandleFunc("POST /api/extract", s.auth(s.handleExtract))
	mux.HandleFunc("POST /api/tasks/{handle}/status", s.auth(s.handleTaskStatus))
	mux.HandleFunc("DELETE /api/collections/{name}/rows/{handle}", s.auth(s.handleDelete))

	mux.HandleFunc("GET /api/advisor", s.auth(s.handleAdvisorHistory))
	mux.HandleFunc("POST /api/advisor", s.auth(s.handleAdvisorAsk))
	mux.HandleFunc("DELETE /api/advisor", s.auth(s.handleAdvisorReset))

	mux.HandleFunc("GET /api/export", s.auth(s.handleExport))
	mux.HandleFunc("GET /api/timer", s.auth(s.handleTimer))

	return mux
}

// auth gates a handler behind the shared-passphrase session. With no
// passphrase configured the gate is open and the summary reports it.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.passphrase != "" && !s.sessions.valid(sessionToken(r)) {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		next(w, r)
	}
}
