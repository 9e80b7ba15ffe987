package webui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"postloom/internal/config"
	"postloom/internal/pipeline"
	"postloom/internal/services/imagegen"
)

//go:embed index.html
var indexHTML string

const outputFileName = "out.png"

// Server hosts the browser demo: a single form that generates an image for a
// raw prompt and displays the latest result from the static directory.
type Server struct {
	bind      string
	staticDir string
	logger    *slog.Logger
	stage     *pipeline.ImageStage
	template  *template.Template

	mu   sync.Mutex
	last pipeline.ArtifactResult

	listener net.Listener
	server   *http.Server
}

// New builds the demo server from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("webui: config required")
	}
	bind := strings.TrimSpace(cfg.Paths.WebBind)
	if bind == "" {
		return nil, errors.New("webui: web bind address required")
	}
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("webui: parse template: %w", err)
	}

	client := imagegen.NewClient(imagegen.Config{
		APIKey:         cfg.ImageGen.APIKey,
		BaseURL:        cfg.ImageGen.BaseURL,
		Model:          cfg.ImageGen.Model,
		Size:           cfg.ImageGen.Size,
		TimeoutSeconds: cfg.ImageGen.TimeoutSeconds,
	})

	srv := &Server{
		bind:      bind,
		staticDir: cfg.Paths.StaticDir,
		logger:    logger,
		stage:     pipeline.NewImageStage(client, logger),
		template:  tmpl,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routing handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	return mux
}

// Start begins serving and shuts down when the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.staticDir, 0o755); err != nil {
		return fmt.Errorf("webui: ensure static dir: %w", err)
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("webui: listen: %w", err)
	}
	s.listener = listener

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web demo listening", "address", listener.Addr().String())
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webui: serve: %w", err)
	}
	return nil
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type indexData struct {
	Prompt     string
	Error      string
	HasImage   bool
	ImageURL   string
	Provenance string
	Reason     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := indexData{}
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		prompt := strings.TrimSpace(r.FormValue("prompt"))
		data.Prompt = prompt
		if prompt == "" {
			data.Error = "Enter a prompt first."
			break
		}
		output := filepath.Join(s.staticDir, outputFileName)
		result, err := s.stage.Generate(r.Context(), prompt, output)
		if err != nil {
			s.logger.Error("demo image generation failed", "error", err)
			data.Error = "Image generation failed. Check the server logs."
			break
		}
		s.mu.Lock()
		s.last = result
		s.mu.Unlock()
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last.Path == "" {
		// Pick up an image left over from a previous process.
		candidate := filepath.Join(s.staticDir, outputFileName)
		if _, err := os.Stat(candidate); err == nil {
			last = pipeline.ArtifactResult{Path: candidate}
		}
	}
	if last.Path != "" {
		data.HasImage = true
		// The cache buster forces the browser to refetch after regeneration.
		data.ImageURL = fmt.Sprintf("/static/%s?v=%d", outputFileName, time.Now().Unix())
		data.Provenance = string(last.Provenance)
		data.Reason = last.Reason
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.template.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
