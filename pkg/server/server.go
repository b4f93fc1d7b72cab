// Package server provides an HTTP server exposing discovered skills as a
// JSON API and as rendered HTML pages for browsing.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.opentelemetry.io/otel/attribute"

	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/skill"
	"github.com/obie/skills/pkg/telemetry"
)

// Config holds the configuration for the HTTP server
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the skill corpus over HTTP
type Server struct {
	router    *mux.Router
	discovery *skill.Discovery
	config    *Config
	server    *http.Server
	markdown  goldmark.Markdown
}

// skillSummary is the list representation of a skill
type skillSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Directory   string `json:"directory"`
}

// skillDetail is the full representation of a skill
type skillDetail struct {
	skillSummary
	Content      string   `json:"content"`
	License      string   `json:"license,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
}

// NewServer creates a new skill corpus server
func NewServer(discovery *skill.Discovery, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router:    mux.NewRouter(),
		discovery: discovery,
		config:    config,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name:[a-z0-9/-]+}/files/{path:.+}", s.handleGetSkillFile).Methods("GET")
	api.HandleFunc("/skills/{name:[a-z0-9/-]+}", s.handleGetSkill).Methods("GET")

	s.router.HandleFunc("/skills/{name:[a-z0-9/-]+}", s.handleSkillPage).Methods("GET")
	s.router.HandleFunc("/", s.handleIndexPage).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("Skill corpus server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Wrap(s.server.Shutdown(shutdownCtx), "failed to shut down server")
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	_ = telemetry.WithSpan(r.Context(), "server.list_skills", func(ctx context.Context) error {
		skills, err := s.discovery.DiscoverSkills()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return err
		}

		summaries := make([]skillSummary, 0, len(skills))
		for _, sk := range skills {
			summaries = append(summaries, skillSummary{
				Name:        sk.Name,
				Description: sk.Description,
				Directory:   sk.Directory,
			})
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

		telemetry.SetAttributes(ctx, attribute.Int("skills.count", len(summaries)))
		s.writeJSON(w, http.StatusOK, summaries)
		return nil
	})
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	_ = telemetry.WithSpan(r.Context(), "server.get_skill", func(ctx context.Context) error {
		sk, err := s.discovery.GetSkill(name)
		if err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return err
		}

		s.writeJSON(w, http.StatusOK, skillDetail{
			skillSummary: skillSummary{
				Name:        sk.Name,
				Description: sk.Description,
				Directory:   sk.Directory,
			},
			Content:      sk.Content,
			License:      sk.Meta.License,
			AllowedTools: sk.Meta.AllowedTools,
		})
		return nil
	}, attribute.String("skill.name", name))
}

func (s *Server) handleGetSkillFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	relPath := vars["path"]

	sk, err := s.discovery.GetSkill(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	// Reject traversal outside the skill directory
	target := filepath.Join(sk.Directory, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(sk.Directory, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid file path"))
		return
	}

	content, err := os.ReadFile(target)
	if err != nil {
		s.writeError(w, http.StatusNotFound, errors.Errorf("file '%s' not found", relPath))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

var skillPageTemplate = template.Must(template.New("skill").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<p><a href="/">&larr; all skills</a></p>
<h1>{{.Name}}</h1>
<p><em>{{.Description}}</em></p>
<hr>
{{.Body}}
</body>
</html>
`))

var indexPageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Skills</title></head>
<body>
<h1>Skills</h1>
<ul>
{{range .}}<li><a href="/skills/{{.Name}}">{{.Name}}</a> &mdash; {{.Description}}</li>
{{end}}</ul>
</body>
</html>
`))

func (s *Server) handleSkillPage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	sk, err := s.discovery.GetSkill(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var rendered bytes.Buffer
	if err := s.markdown.Convert([]byte(sk.Content), &rendered); err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to render skill"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	skillPageTemplate.Execute(w, map[string]interface{}{
		"Name":        sk.Name,
		"Description": sk.Description,
		"Body":        template.HTML(rendered.String()),
	})
}

func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	skills, err := s.discovery.DiscoverSkills()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	summaries := make([]skillSummary, 0, len(skills))
	for _, sk := range skills {
		summaries = append(summaries, skillSummary{Name: sk.Name, Description: sk.Description})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexPageTemplate.Execute(w, summaries)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// loggingMiddleware logs each request with method, path, and duration
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.G(r.Context()).WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("HTTP request")
	})
}

// corsMiddleware adds permissive CORS headers for local tooling
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
