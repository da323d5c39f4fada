package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/config"
	"github.com/nonthasen/campusdesk/internal/observability"
	"github.com/nonthasen/campusdesk/internal/pipeline"
	"github.com/nonthasen/campusdesk/internal/ratelimit"
)

// Answerer is the one operation the HTTP layer needs from the query pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

type Server struct {
	cfg      config.Config
	answerer Answerer
	limiter  *ratelimit.Limiter
	metrics  *observability.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func New(cfg config.Config, answerer Answerer, limiter *ratelimit.Limiter, metrics *observability.Metrics, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		answerer: answerer,
		limiter:  limiter,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up. Non-browser clients
				// often omit Origin; allow them.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/dashboard/query", s.handleQuery)
	r.Get("/v1/chat/ws", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	decision := s.limiter.Admit(key)
	s.metrics.ActiveClients.Set(float64(s.limiter.ActiveClients()))

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.Allowed {
		s.metrics.RateLimitedTotal.Inc()
		w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfterSeconds()))
		s.logger.Warn("rate limited", zap.String("client", key))
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": "Too many requests. Please try again later.",
		})
		return
	}

	var req queryRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	answer := s.answerer.Answer(r.Context(), req.Question)
	respondJSON(w, http.StatusOK, queryResponse{Answer: answer})
}

// ChatTurn is one websocket chat message in either direction. Turns are not
// persisted; every question is answered independently.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	for {
		var turn ChatTurn
		if err := conn.ReadJSON(&turn); err != nil {
			return
		}

		decision := s.limiter.Admit(key)
		s.metrics.ActiveClients.Set(float64(s.limiter.ActiveClients()))
		if !decision.Allowed {
			s.metrics.RateLimitedTotal.Inc()
			if err := conn.WriteJSON(ChatTurn{Role: "assistant", Text: pipeline.MsgRateLimited}); err != nil {
				return
			}
			continue
		}

		answer := s.answerer.Answer(r.Context(), turn.Text)
		if err := conn.WriteJSON(ChatTurn{Role: "assistant", Text: answer}); err != nil {
			return
		}
	}
}

// clientKey identifies the caller for rate limiting: the first hop of
// X-Forwarded-For when present, then X-Real-IP, then the peer address.
func clientKey(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return fwd
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
