// Package webhook exposes the relay over HTTP: the platform verification
// handshake, the event intake, and a small admin surface.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avasarlabs/santosh"
	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/pkg/adapters/whatsapp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles webhook traffic for one relay.
type Server struct {
	relay       *santosh.Relay
	verifyToken string
	logger      *slog.Logger
	metrics     *metrics
	registry    *prometheus.Registry
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a webhook Server for the relay.
func NewServer(relay *santosh.Relay, verifyToken string, opts ...Option) *Server {
	s := &Server{
		relay:       relay,
		verifyToken: verifyToken,
		logger:      logging.NewNop(),
		registry:    prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.registry)
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/webhook", s.handleVerify)
	r.Post("/webhook", s.handleEvent)

	r.Get("/healthz", s.handleHealth)
	r.Get("/flow", s.handleFlow)
	r.Post("/flow/reload", s.handleReload)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// handleVerify answers the platform's challenge/response handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "verification failed", http.StatusForbidden)
}

// handleEvent acknowledges the payload immediately and processes each
// message in its own goroutine. A failure in one message never reaches its
// siblings or the acknowledgment.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event whatsapp.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.logger.Warn("rejecting undecodable webhook payload", "err", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	messages := event.Messages()

	// Acknowledge before dispatching: the platform's delivery deadline is
	// short, and everything past this point is best-effort anyway.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))

	for _, msg := range messages {
		in := santosh.Inbound{
			From:      msg.From,
			MessageID: msg.ID,
			Text:      msg.Body(),
			CTAID:     msg.CallbackID(),
		}

		kind := "text"
		if in.CTAID != "" {
			kind = "cta"
		}
		s.metrics.inbound.WithLabelValues(kind).Inc()

		go func(in santosh.Inbound) {
			// Detached context: the request is already acknowledged and its
			// context dies with the handler.
			path, err := s.relay.Handle(context.Background(), in)
			if err != nil {
				s.metrics.dispatchErrors.Inc()
				return
			}
			s.metrics.replies.WithLabelValues(string(path)).Inc()
		}(in)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFlow exposes the current flow snapshot for introspection.
func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	gen, loadedAt := s.relay.Store().Generation()
	respondJSON(w, http.StatusOK, map[string]any{
		"generation": gen,
		"loaded_at":  loadedAt,
		"nodes":      s.relay.Store().Current(),
	})
}

// handleReload triggers an on-demand flow reload. Load never fails outward,
// so this always reports the flow now in effect.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.metrics.reloads.Inc()
	flow := s.relay.Store().Load(r.Context())
	gen, _ := s.relay.Store().Generation()
	respondJSON(w, http.StatusOK, map[string]any{
		"generation": gen,
		"nodes":      len(flow),
	})
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Body already partially written; nothing sensible left to do.
		return
	}
}
