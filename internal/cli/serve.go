package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/salesmap/pkg/dataset"
	apperrors "github.com/matzehuels/salesmap/pkg/errors"
	"github.com/matzehuels/salesmap/pkg/pipeline"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command for the HTTP treemap server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		labelsFile string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the treemap over HTTP",
		Long: `Serve the treemap over HTTP.

The dataset is loaded once, on the first request, and shared by every route
for the lifetime of the process:

  /             HTML page with title, treemap, tooltip and legend
  /treemap.svg  treemap SVG
  /legend.svg   legend SVG
  /layout.json  layout export
  /healthz      loader state`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, c.Config, &opts, labelsFile); err != nil {
				return err
			}
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, opts, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "dataset URL (default from config)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "serve a local dataset file")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	cmd.Flags().Float64Var(&opts.PaddingOuter, "padding", 0, "inset of children from their group's edges")
	cmd.Flags().StringVar(&labelsFile, "labels", "", "TOML file mapping platforms to legend labels")
	cmd.Flags().BoolVar(&opts.Tooltip, "tooltip", false, "embed the hover tooltip in /treemap.svg")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := newServer(runner, opts, c.Logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	printSuccess("Serving treemap")
	printKeyValue("Address", addr)
	printKeyValue("Source", srv.loader.Source().Name())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// server renders pipeline artifacts per request from one shared dataset load.
type server struct {
	runner *pipeline.Runner
	loader *dataset.Loader
	opts   pipeline.Options
	logger *log.Logger
}

// newServer binds a single Loader to runner so every request shares one load.
func newServer(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *server {
	opts.SetDefaults()
	loader := dataset.NewLoader(opts.Source(runner.Fetcher))
	runner.Loader = loader
	return &server{runner: runner, loader: loader, opts: opts, logger: logger}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.requestLogger)

	r.Get("/", s.artifact(pipeline.FormatHTML))
	r.Get("/treemap.svg", s.artifact(pipeline.FormatSVG))
	r.Get("/legend.svg", s.artifact(pipeline.FormatLegend))
	r.Get("/layout.json", s.artifact(pipeline.FormatJSON))
	r.Get("/healthz", s.health)
	return r
}

// requestID tags each request with the caller's X-Request-ID or a new UUID,
// and attaches a logger carrying it.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		l := s.logger.With("request_id", id)
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), l)))
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		loggerFromContext(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// artifact serves one rendered format.
func (s *server) artifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.opts
		opts.Formats = []string{format}
		opts.Logger = loggerFromContext(r.Context())

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", pipeline.ContentTypes[format])
		if result.CacheInfo.RenderHit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
		}
		_, _ = w.Write(result.Artifacts[format])
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Loader string `json:"loader"`
	Source string `json:"source"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	state := s.loader.State()
	resp := healthResponse{Status: "ok", Loader: state.String(), Source: s.loader.Source().Name()}
	code := http.StatusOK
	if state == dataset.Failed {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.HTTPStatus(err)
	l := loggerFromContext(r.Context())
	if code >= http.StatusInternalServerError {
		l.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		l.Warn("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, code, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
