// Package api provides the HTTP REST API server for heidash.
//
// It exposes endpoints that render HEI category donuts as JSON geometry
// or standalone SVG, a batch renderer, and a WebSocket feed of renders.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/heiportal/heidash/internal/chart"
	"github.com/heiportal/heidash/internal/config"
	"github.com/heiportal/heidash/internal/infra"
	"github.com/heiportal/heidash/internal/logging"
)

// Version is reported by the health endpoint. Set at build time.
var Version = "dev"

const (
	maxBodyBytes  = 1 << 20
	maxBatchSize  = 100
	shutdownGrace = 15 * time.Second
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	log      *zap.Logger
	validate *validator.Validate
	wsHub    *WSHub
	svgCache *infra.Cache[cachedSVG] // nil when disabled
	started  time.Time
}

type cachedSVG struct {
	renderID string
	body     string
}

// NewServer creates a configured API server with all routes and middleware.
// A nil logger discards output.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:      cfg,
		log:      log,
		validate: newValidator(),
		wsHub:    NewWSHub(log),
		started:  time.Now(),
	}
	if ttl := cfg.API.SVGCacheTTLSec; ttl > 0 {
		srv.svgCache = infra.NewCache[cachedSVG](time.Duration(ttl)*time.Second, cfg.API.SVGCacheSize)
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, addr)
}

// Serve runs the HTTP server until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.renderTimeout()))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Render-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/charts/donut", func(r chi.Router) {
			r.Get("/categories", s.handleCategories)
			r.Post("/", s.handleDonut)
			r.Post("/svg", s.handleDonutSVG)
			r.Post("/batch", s.handleDonutBatch)
		})

		r.Get("/config", s.handleGetConfig)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

func (s *Server) renderTimeout() time.Duration {
	if s.cfg.API.RenderTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.cfg.API.RenderTimeoutSec) * time.Second
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DonutRequest is the body for POST /api/v1/charts/donut and /svg.
// Categories default to the SUC/LUC/Private set when omitted.
type DonutRequest struct {
	Data         map[string]float64     `json:"data" validate:"required"`
	Categories   []chart.CategoryConfig `json:"categories,omitempty" validate:"omitempty,unique=Key,dive"`
	CenterLabel  string                 `json:"center_label,omitempty" validate:"max=64"`
	EmptyMessage string                 `json:"empty_message,omitempty" validate:"max=200"`
	EmptySubtext string                 `json:"empty_subtext,omitempty" validate:"max=500"`
}

// BatchRequest is the body for POST /api/v1/charts/donut/batch.
type BatchRequest struct {
	Charts []DonutRequest `json:"charts" validate:"required,min=1,dive"`
}

// RenderResult is one rendered donut plus the id broadcast to WebSocket
// subscribers.
type RenderResult struct {
	RenderID string `json:"render_id"`
	chart.Donut
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	WSClients int    `json:"ws_clients"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:    "ok",
			Version:   Version,
			Uptime:    time.Since(s.started).Round(time.Second).String(),
			WSClients: s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    chart.DefaultCategories(),
	})
}

func (s *Server) handleDonut(w http.ResponseWriter, r *http.Request) {
	var req DonutRequest
	if !s.decode(w, r, &req) {
		return
	}

	res := s.render(req)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    res,
	})
}

func (s *Server) handleDonutSVG(w http.ResponseWriter, r *http.Request) {
	var req DonutRequest
	if !s.decode(w, r, &req) {
		return
	}

	key := requestKey(req)
	hit, cached := s.lookupSVG(key)
	if !cached {
		res := s.render(req)
		hit = cachedSVG{renderID: res.RenderID, body: chart.SVG(res.Donut)}
		if s.svgCache != nil {
			s.svgCache.Set(key, hit)
		}
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Render-ID", hit.renderID)
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(hit.body)); err != nil {
		s.log.Warn("failed to write SVG response", zap.Error(err))
	}
}

func (s *Server) lookupSVG(key string) (cachedSVG, bool) {
	if s.svgCache == nil || key == "" {
		return cachedSVG{}, false
	}
	return s.svgCache.Get(key)
}

// requestKey hashes the canonical JSON of req. Map keys marshal sorted,
// so equal requests hash equally.
func requestKey(req DonutRequest) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s *Server) handleDonutBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Charts) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d charts per batch", maxBatchSize))
		return
	}

	results, err := s.renderBatch(r.Context(), req.Charts)
	if err != nil {
		s.log.Warn("batch render aborted", zap.Error(err), zap.Int("charts", len(req.Charts)))
		writeError(w, http.StatusServiceUnavailable, "batch render aborted: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    results,
	})
}

// renderBatch renders every chart concurrently, bounded by the configured
// batch concurrency. Results keep request order.
func (s *Server) renderBatch(ctx context.Context, reqs []DonutRequest) ([]RenderResult, error) {
	results := make([]RenderResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	limit := s.cfg.API.BatchConcurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.render(reqs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// render builds options from the running config and req, renders, and
// announces the result on the hub.
func (s *Server) render(req DonutRequest) RenderResult {
	opts := s.cfg.ChartOptions()
	if len(req.Categories) > 0 {
		opts.Categories = req.Categories
	}
	if req.CenterLabel != "" {
		label := req.CenterLabel
		opts.CenterLabel = func(float64) string { return label }
	}
	if req.EmptyMessage != "" {
		opts.EmptyMessage = req.EmptyMessage
	}
	if req.EmptySubtext != "" {
		opts.EmptySubtext = req.EmptySubtext
	}

	res := RenderResult{
		RenderID: uuid.NewString(),
		Donut:    chart.Render(req.Data, opts),
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "chart_rendered",
		Data: map[string]interface{}{
			"render_id": res.RenderID,
			"total":     res.Total,
			"segments":  len(res.Segments),
			"empty":     res.IsEmpty(),
		},
	})
	s.log.Debug("donut rendered",
		zap.String("render_id", res.RenderID),
		zap.Float64("total", res.Total),
		zap.Int("segments", len(res.Segments)))

	return res
}

// decode reads and validates a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage flattens validator errors into one line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the top-level struct name: "DonutRequest.categories[1].key"
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "unique":
			msgs = append(msgs, field+" must have unique "+fe.Param()+" values")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is longer than %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
