// Package webhook serves the chat-platform webhook endpoint in front of the
// conversation bot.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler answers one user message. *bot.Bot satisfies it.
type Handler interface {
	Handle(ctx context.Context, userID, text string) (string, error)
}

type metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg *prometheus.Registry) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sprout",
			Name:      "skill_requests_total",
			Help:      "Webhook requests by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sprout",
			Name:      "skill_request_duration_seconds",
			Help:      "Webhook request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Options configures the Server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the webhook HTTP server.
type Server struct {
	http    *http.Server
	bot     Handler
	log     *zap.Logger
	metrics *metrics
	opts    Options
}

// New creates a Server. Zero timeouts get conservative defaults.
func New(bot Handler, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		bot:     bot,
		log:     log,
		metrics: newMetrics(reg),
		opts:    opts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /skill", s.handleSkill)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("webhook server listening", zap.String("addr", s.opts.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down webhook server")
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		s.metrics.duration.Observe(time.Since(start).Seconds())
	}()

	var payload SkillPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.requests.WithLabelValues("bad_request").Inc()
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}
	userID := payload.UserRequest.User.ID
	utterance := payload.UserRequest.Utterance
	if userID == "" || utterance == "" {
		s.metrics.requests.WithLabelValues("bad_request").Inc()
		http.Error(w, "missing user id or utterance", http.StatusBadRequest)
		return
	}

	reply, err := s.bot.Handle(r.Context(), userID, utterance)
	if err != nil {
		s.metrics.requests.WithLabelValues("error").Inc()
		s.log.Error("bot handling failed",
			zap.String("user", userID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.metrics.requests.WithLabelValues("ok").Inc()
	s.log.Info("skill request served",
		zap.String("user", userID),
		zap.Duration("elapsed", time.Since(start)))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(NewSimpleTextResponse(reply)); err != nil {
		s.log.Error("encode response failed", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
