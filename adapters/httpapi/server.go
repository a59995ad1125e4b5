// Package httpapi exposes plan validation and run artifacts over HTTP
// so analysts can lint a plan document and browse outputs without
// running the CLI locally.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"golikert/adapters/planfile"
	"golikert/domain/plan"
	"golikert/internal"
)

// Server serves the validation API and the output directory.
type Server struct {
	router    *chi.Mux
	logger    *internal.Logger
	outputDir string
}

// NewServer builds the router. outputDir is served read-only under
// /outputs/.
func NewServer(logger *internal.Logger, outputDir string) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		outputDir: outputDir,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/plan/validate", s.handleValidatePlan)
	s.router.Get("/api/aggregates", s.handleAggregates)

	fileServer := http.StripPrefix("/outputs/", http.FileServer(http.Dir(s.outputDir)))
	s.router.Get("/outputs/*", fileServer.ServeHTTP)
}

// Handler returns the http handler for serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the given port until the process exits.
func (s *Server) Start(port string) error {
	s.logger.Info("serving on :%s (outputs from %s)", port, s.outputDir)
	return http.ListenAndServe(":"+port, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validationResponse reports the outcome of a plan lint. Violations is
// the full aggregated list, never just the first problem.
type validationResponse struct {
	Valid      bool     `json:"valid"`
	NItems     int      `json:"n_items,omitempty"`
	Violations []string `json:"violations,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (s *Server) handleValidatePlan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "failed to read request body"})
		return
	}

	p, err := planfile.Parse(body)
	if err != nil {
		var vErr *plan.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
				Valid:      false,
				Violations: vErr.Violations,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, validationResponse{Valid: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, validationResponse{Valid: true, NItems: len(p.ItemsUniverse)})
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.outputDir+"/aggregates.json")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
