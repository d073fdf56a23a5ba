// Package httpapi exposes the comparison engine over a small JSON API,
// grounded on the one pack repo with an HTTP transport stack: a chi router,
// chi's request-scoped middleware, and go-chi/cors for browser clients.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/extest/tablesim/internal/compare"
	"github.com/extest/tablesim/internal/table"
	"github.com/extest/tablesim/internal/tables"
	"github.com/extest/tablesim/pkg/comparerr"
)

// CompareRequest is the POST /compare request body. Tables are supplied as
// allow-listed file paths, the same input shape as the CLI and MCP tool.
type CompareRequest struct {
	ReferencePath     string            `json:"reference_path"`
	CandidatePath     string            `json:"candidate_path"`
	SampleSizeMapping int               `json:"sample_size_mapping,omitempty"`
	Weights           map[string]string `json:"weights,omitempty"`
}

// Handler wires the comparison engine into chi handlers.
type Handler struct {
	Tables *tables.Manager
	Logger zerolog.Logger
}

// NewHandler constructs a Handler bound to a table cache and logger.
func NewHandler(tblMgr *tables.Manager, logger zerolog.Logger) *Handler {
	return &Handler{Tables: tblMgr, Logger: logger}
}

// NewRouter builds the chi router: request IDs, real-IP and panic recovery, permissive
// CORS for a browser client, health check, and the single /compare route.
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Post("/compare", h.Compare)

	return r
}

// Health reports liveness for load balancer probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Compare handles POST /compare: loads both tables (via the shared cache),
// runs the comparison, and writes the report as JSON. Errors are mapped to
// HTTP status codes through comparerr.HTTPStatus.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, comparerr.Wrap(comparerr.Validation, err))
		return
	}

	refPath := strings.TrimSpace(req.ReferencePath)
	candPath := strings.TrimSpace(req.CandidatePath)
	if refPath == "" || candPath == "" {
		writeError(w, comparerr.New(comparerr.Validation, "reference_path and candidate_path are required"))
		return
	}

	ref, err := h.Tables.GetOrLoad(table.Reference, refPath)
	if err != nil {
		writeError(w, comparerr.Wrap(comparerr.MalformedInput, err))
		return
	}
	cand, err := h.Tables.GetOrLoad(table.Candidate, candPath)
	if err != nil {
		writeError(w, comparerr.Wrap(comparerr.MalformedInput, err))
		return
	}

	cfg := compare.DefaultConfig()
	if req.SampleSizeMapping > 0 {
		cfg.SampleSizeMapping = req.SampleSizeMapping
	}
	if req.Weights != nil {
		cfg.Weights = req.Weights
	}

	report, err := compare.Compare(r.Context(), ref, cand, cfg, h.Logger)
	if err != nil {
		if cerr, ok := err.(*comparerr.Error); ok {
			writeError(w, cerr)
			return
		}
		writeError(w, comparerr.Wrap(comparerr.InternalError, err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func writeError(w http.ResponseWriter, err *comparerr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(comparerr.HTTPStatus(err.Code))
	_ = json.NewEncoder(w).Encode(map[string]string{"code": string(err.Code), "error": err.Error()})
}
