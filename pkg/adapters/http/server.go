package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/dto"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes bounds request bodies; actions are tiny.
const maxBodyBytes = 1 << 16

// Server exposes a store over HTTP.
type Server struct {
	Store   ports.Store
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger

	mu          sync.Mutex
	last        domain.State
	unsubscribe func()
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts h (typically promhttp) on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server and subscribes it to the store so state diffs reach SSE clients.
// Call Close to detach it.
func NewServer(store ports.Store, opts ...Option) *Server {
	s := &Server{
		Store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	if store != nil {
		s.last = store.GetState()
		s.unsubscribe = store.Subscribe(s.onChange)
	}
	return s
}

// NewHandler creates a new HTTP handler for the store.
func NewHandler(store ports.Store, opts ...Option) http.Handler {
	return NewServer(store, opts...).Handler()
}

// Close detaches the server from the store.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Post("/dispatch", s.Dispatch)
	r.Post("/increment", s.Increment)
	r.Post("/decrement", s.Decrement)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onChange() {
	// Read under s.mu so concurrent notifications cannot broadcast an older state last.
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.last
	s.last = s.Store.GetState()
	if diff := domain.Diff(&prev, s.last); diff != nil {
		s.Streams.Broadcast(diff)
	}
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.GetState())
}

// Dispatch handles the POST /dispatch request.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := s.decodeBody(w, r, "Action")
	if err != nil {
		return
	}

	action, err := dto.DecodeAction(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid action: %v", err), http.StatusBadRequest)
		s.logger.Warn("Dispatch: Invalid action", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.Store.Dispatch(r.Context(), action))
}

// Increment handles the POST /increment request.
func (s *Server) Increment(w http.ResponseWriter, r *http.Request) {
	body, err := s.decodeBody(w, r, "IncrementRequest")
	if err != nil {
		return
	}

	amount, err := dto.Int(body["amount"])
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid amount: %v", err), http.StatusBadRequest)
		s.logger.Warn("Increment: Invalid amount", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Store.Dispatch(r.Context(), domain.Increment(amount)))
}

// Decrement handles the POST /decrement request.
func (s *Server) Decrement(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.Dispatch(r.Context(), domain.Decrement()))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tally-http",
		"version":     strings.TrimSpace(tally.Version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var watch *[]string
	if err := runtime.BindQueryParameter("form", false, false, "watch", r.URL.Query(), &watch); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter watch: %v", err), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch, cancel := s.Streams.Subscribe()
	defer cancel()
	s.logger.Info("SSE: Client subscribed", "stream_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	// Initial load: the whole state as a diff against nothing.
	s.writeEvent(w, domain.Diff(nil, s.Store.GetState()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "stream_id", id)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil && !touchesAny(diff, *watch) {
				continue
			}
			s.writeEvent(w, diff)
			flusher.Flush()
		}
	}
}

func touchesAny(diff *domain.StateDiff, fields []string) bool {
	for _, f := range fields {
		if diff.Touches(strings.TrimSpace(f)) {
			return true
		}
	}
	return false
}

func (s *Server) writeEvent(w io.Writer, diff *domain.StateDiff) {
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("SSE: diff encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", bytes)
}

// decodeBody reads a JSON object and validates it against a component schema.
// On failure it has already written the response.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, schema string) (map[string]any, error) {
	var raw any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// Numbers stay json.Number so large integers are not rounded through float64.
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return nil, err
	}

	if err := validateBody(schema, raw); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errSpecUnavailable) {
			status = http.StatusInternalServerError
		}
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), status)
		s.logger.Warn("Request rejected by schema", "path", r.URL.Path, "schema", schema, "error", err)
		return nil, err
	}

	body, ok := raw.(map[string]any)
	if !ok {
		err := fmt.Errorf("%w: expected a JSON object", domain.ErrMalformedAction)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, err
	}
	return body, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
