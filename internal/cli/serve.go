package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/buildinfo"
	"github.com/matzehuels/emojiqr/pkg/cache"
	qrerrors "github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/observability"
	"github.com/matzehuels/emojiqr/pkg/payload"
	"github.com/matzehuels/emojiqr/pkg/pipeline"
	"github.com/matzehuels/emojiqr/pkg/presets"
	"github.com/matzehuels/emojiqr/pkg/render"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

const (
	defaultAddr = ":8080"

	// maxModulePx bounds request geometry so one request cannot allocate a
	// huge canvas.
	maxModulePx = 64
	maxBorder   = 16

	shutdownTimeout = 5 * time.Second
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, assetsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve QR codes over HTTP",
		Long: `Serve starts an HTTP API:

  GET /api/qr?data=...&format=svg|png|pdf|json&preset=url&look=1&caption=...
  GET /api/presets
  GET /healthz

Style query parameters use the render flag names with underscores
(module_shape, eye_ring, center_emoji, ...). With kind=wifi|vcard|...
the remaining parameters are payload fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, assetsDir)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(nil, "serve:")

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(runner, presets.Factory(), c.Logger).routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listenAndServe(ctx, srv, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&assetsDir, "assets", assets.DefaultDir, "directory of emoji PNGs named by code point")

	return cmd
}

// listenAndServe runs srv until ctx is canceled, then shuts it down.
func listenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "version", buildinfo.Get().Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner *pipeline.Runner
	lib    *presets.Library
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, lib *presets.Library, logger *log.Logger) *server {
	return &server{runner: runner, lib: lib, logger: logger.WithPrefix("http")}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/presets", s.handlePresets)
	r.Get("/api/qr", s.handleQR)
	return r
}

type requestIDKey struct{}

// trace assigns a request id and reports each request to the server hooks.
func (s *server) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		observability.Server().OnRequest(ctx, id, r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.Server().OnResponse(ctx, id, r.Method, r.URL.Path, status, dur)
		s.logger.Info("request", "id", id, "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

type presetType struct {
	Name  string   `json:"name"`
	Looks []string `json:"looks"`
}

func (s *server) handlePresets(w http.ResponseWriter, r *http.Request) {
	types := make([]presetType, 0, len(s.lib.Types))
	for _, name := range s.lib.TypeNames() {
		types = append(types, presetType{Name: name, Looks: s.lib.Captions(name)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.lib.Version,
		"types":   types,
	})
}

func (s *server) handleQR(w http.ResponseWriter, r *http.Request) {
	opts, err := s.qrOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	if result.RenderHash != "" {
		h.Set("ETag", `"`+pipeline.ShortHash(result.RenderHash, 16)+`"`)
	}
	h.Set("Cache-Control", "public, max-age=3600")
	if result.CacheHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}
	for _, warning := range result.Warnings {
		h.Add("X-QR-Warning", warning)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// styleParams are the query parameters that set style fields.
var styleParams = map[string]func(*styles.Config, string){
	"bg":               func(c *styles.Config, v string) { c.Colors.Background = v },
	"body":             func(c *styles.Config, v string) { c.Colors.Body = v },
	"eye_ring":         func(c *styles.Config, v string) { c.Colors.EyeRing = v },
	"eye_center":       func(c *styles.Config, v string) { c.Colors.EyeCenter = v },
	"caption_color":    func(c *styles.Config, v string) { c.Colors.Caption = v },
	"module_shape":     func(c *styles.Config, v string) { c.ModuleShape = styles.ParseKind(v) },
	"eye_ring_shape":   func(c *styles.Config, v string) { c.EyeRingShape = styles.ParseKind(v) },
	"eye_center_shape": func(c *styles.Config, v string) { c.EyeCenterShape = styles.ParseKind(v) },
	"fill":             func(c *styles.Config, v string) { c.ModuleFill = styles.ParseFillMode(v) },
	"module_emoji":     func(c *styles.Config, v string) { c.ModuleEmoji = v },
	"center_mode":      func(c *styles.Config, v string) { c.CenterMode = styles.ParseCenterMode(v) },
	"center_emoji":     func(c *styles.Config, v string) { c.CenterEmoji = v },
	"caption":          func(c *styles.Config, v string) { c.Caption = v },
	"caption_font":     func(c *styles.Config, v string) { c.CaptionFont = v },
}

// numericStyleParams are style parameters parsed as numbers or booleans.
var numericStyleParams = map[string]bool{
	"module_scale": true, "center": true, "center_frac": true, "center_scale": true,
}

// requestParams are the non-style parameters of /api/qr.
var requestParams = map[string]bool{
	"data": true, "kind": true, "format": true, "ecc": true, "preset": true, "look": true,
	"module_px": true, "border": true, "png_width": true, "transparent": true,
}

// qrOptions converts /api/qr query parameters into pipeline options.
func (s *server) qrOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options

	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	opts.Level = q.Get("ecc")

	var err error
	if opts.Content, err = s.content(q); err != nil {
		return opts, err
	}
	if opts.Style, err = s.style(q); err != nil {
		return opts, err
	}

	if opts.ModulePx, err = intParam(q, "module_px", 0, 1, maxModulePx); err != nil {
		return opts, err
	}
	if q.Has("border") {
		border, err := intParam(q, "border", 0, 0, maxBorder)
		if err != nil {
			return opts, err
		}
		opts.Border = pipeline.Border(border)
	}
	if opts.PNGWidth, err = intParam(q, "png_width", 0, 1, render.MaxPNGWidth); err != nil {
		return opts, err
	}
	return opts, nil
}

// content returns data verbatim, or builds a payload from the non-reserved
// parameters when kind is set.
func (s *server) content(q url.Values) (string, error) {
	if !q.Has("kind") {
		return q.Get("data"), nil
	}
	kind, err := payload.ParseKind(q.Get("kind"))
	if err != nil {
		return "", err
	}
	fields := make(map[string]string)
	for key := range q {
		if requestParams[key] || numericStyleParams[key] || styleParams[key] != nil {
			continue
		}
		fields[strings.ToLower(key)] = q.Get(key)
	}
	if key, ok := primaryField[kind]; ok && q.Has("data") {
		if _, set := fields[key]; !set {
			fields[key] = q.Get("data")
		}
	}
	return payload.Build(string(kind), fields)
}

// style resolves defaults, then the preset, then individual parameters.
func (s *server) style(q url.Values) (styles.Config, error) {
	cfg := styles.DefaultConfig()
	if preset := q.Get("preset"); preset != "" {
		look, err := intParam(q, "look", 0, -1<<20, 1<<20)
		if err != nil {
			return cfg, err
		}
		if cfg, err = s.lib.Resolve(preset, look); err != nil {
			return cfg, err
		}
	}
	for key, set := range styleParams {
		if q.Has(key) {
			set(&cfg, q.Get(key))
		}
	}
	if v, _ := strconv.ParseBool(q.Get("transparent")); v {
		cfg.Colors.Background = styles.None
	}
	if q.Has("center") {
		v, err := strconv.ParseBool(q.Get("center"))
		if err != nil {
			return cfg, qrerrors.New(qrerrors.ErrCodeInvalidInput, "center must be a boolean, got %q", q.Get("center"))
		}
		cfg.Center = v
	}
	for key, dst := range map[string]*float64{
		"module_scale": &cfg.ModuleScale,
		"center_frac":  &cfg.CenterFrac,
		"center_scale": &cfg.CenterScale,
	} {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return cfg, qrerrors.New(qrerrors.ErrCodeInvalidInput, "%s must be a number, got %q", key, q.Get(key))
		}
		*dst = v
	}
	return cfg, cfg.Validate()
}

// intParam parses an optional integer parameter within [lo, hi].
func intParam(q url.Values, key string, def, lo, hi int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, qrerrors.New(qrerrors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, raw)
	}
	if v < lo || v > hi {
		return 0, qrerrors.New(qrerrors.ErrCodeInvalidInput, "%s must be in [%d, %d], got %d", key, lo, hi, v)
	}
	return v, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps coded errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case qrerrors.IsInvalid(err):
		return http.StatusBadRequest
	case qrerrors.IsNotFound(err):
		return http.StatusNotFound
	case qrerrors.Is(err, qrerrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := qrerrors.GetCode(err)
	if code == "" {
		code = qrerrors.ErrCodeInternal
	}
	id, _ := r.Context().Value(requestIDKey{}).(string)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "err", err)
	}
	writeJSON(w, status, errorBody{Error: qrerrors.UserMessage(err), Code: string(code), RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
