package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/reporeport/internal/analysis"
	"github.com/QTest-hq/reporeport/internal/config"
	"github.com/QTest-hq/reporeport/internal/metrics"
	"github.com/QTest-hq/reporeport/internal/pos"
	"github.com/QTest-hq/reporeport/internal/report"
)

// Analyzer is the analysis surface served over HTTP
type Analyzer interface {
	report.Analyzer
	TopVerbs(ctx context.Context, root string, topSize int) (analysis.RankedList, error)
	TopFunctionNames(ctx context.Context, root string, topSize int) (analysis.RankedList, error)
	TopWords(ctx context.Context, root string, topSize int) (analysis.RankedList, error)
}

// Server represents the API server
type Server struct {
	cfg      *config.Config
	projects *config.ProjectConfig
	analyzer Analyzer
	runner   *report.Runner
	router   *chi.Mux
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, projects *config.ProjectConfig, analyzer Analyzer) (*Server, error) {
	if projects == nil {
		projects = config.DefaultProjectConfig()
	}

	s := &Server{
		cfg:      cfg,
		projects: projects,
		analyzer: analyzer,
		runner:   report.NewRunner(analyzer),
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.healthCheck)
	s.router.Handle("/metrics", metrics.Handler())

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjects)
			r.Get("/{name}/verbs", s.rank(s.analyzer.TopVerbs))
			r.Get("/{name}/functions", s.rank(s.analyzer.TopFunctionNames))
			r.Get("/{name}/words", s.rank(s.analyzer.TopWords))
		})

		r.Get("/report", s.getReport)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ProjectResponse describes a configured project
type ProjectResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
	Ref  string `json:"ref,omitempty"`
}

// RankingResponse is the ranking of one project
type RankingResponse struct {
	Project string              `json:"project"`
	TopSize int                 `json:"top_size"`
	Entries analysis.RankedList `json:"entries"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	resp := make([]ProjectResponse, 0, len(s.projects.Projects))
	for _, p := range s.projects.Projects {
		resp = append(resp, ProjectResponse{
			Name: p.Name,
			Path: s.projects.ProjectPath(p),
			URL:  p.URL,
			Ref:  p.Ref,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type rankFunc func(ctx context.Context, root string, topSize int) (analysis.RankedList, error)

// rank serves one ranking of the project named in the URL
func (s *Server) rank(fn rankFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		p, ok := s.projects.FindProject(name)
		if !ok {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}

		top, err := s.topSize(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		entries, err := fn(r.Context(), s.projects.ProjectPath(p), top)
		if err != nil {
			s.analysisFailed(w, err, name)
			return
		}
		if entries == nil {
			entries = analysis.RankedList{}
		}

		writeJSON(w, http.StatusOK, RankingResponse{
			Project: name,
			TopSize: top,
			Entries: entries,
		})
	}
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	top, err := s.topSize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := report.KindVerbs
	if k := r.URL.Query().Get("kind"); k != "" {
		if kind, err = report.ParseKind(k); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cfg := *s.projects
	cfg.TopSize = top

	rep, err := s.runner.Run(r.Context(), &cfg, kind)
	if err != nil {
		s.analysisFailed(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

var errInvalidTop = errors.New("top must be a positive integer")

// topSize reads the top query parameter, defaulting to the configured size
func (s *Server) topSize(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		if s.projects.TopSize > 0 {
			return s.projects.TopSize, nil
		}
		if s.cfg != nil && s.cfg.TopSize > 0 {
			return s.cfg.TopSize, nil
		}
		return 10, nil
	}

	top, err := strconv.Atoi(raw)
	if err != nil || top < 1 {
		return 0, errInvalidTop
	}
	return top, nil
}

func (s *Server) analysisFailed(w http.ResponseWriter, err error, project string) {
	var ce *pos.ClassificationError
	if errors.As(err, &ce) {
		log.Error().Err(err).Str("project", project).Str("word", ce.Word).Msg("classification failed")
		writeError(w, http.StatusInternalServerError, "classification failed")
		return
	}

	log.Error().Err(err).Str("project", project).Msg("analysis failed")
	writeError(w, http.StatusInternalServerError, "analysis failed")
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
