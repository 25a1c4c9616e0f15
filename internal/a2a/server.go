package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rcliao/product-support/internal/session"
	"github.com/rcliao/product-support/internal/tools"
)

// ProtocolVersion is advertised on agent cards.
const ProtocolVersion = "0.3.0"

// AgentConfig describes the agent a Server exposes.
type AgentConfig struct {
	Name        string
	Description string
	URL         string
	Version     string

	// DefaultSkill handles text-only messages; the text becomes DefaultArg.
	DefaultSkill string
	DefaultArg   string

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64
	Burst     int
}

// Server serves one agent's card and JSON-RPC endpoint.
type Server struct {
	cfg      AgentConfig
	registry *tools.Registry
	logger   zerolog.Logger
	limiter  *rate.Limiter
	router   *mux.Router
}

// NewServer builds the HTTP surface for the tools in reg.
func NewServer(cfg AgentConfig, reg *tools.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimitMiddleware)

	s.router.HandleFunc(CardPath, s.handleCard).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/tools", s.handleTools).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleRPC).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("agent", s.cfg.Name).Msg("Agent server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Str("agent", s.cfg.Name).Msg("Shutting down agent server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Card returns the agent card, one skill per registered tool.
func (s *Server) Card() AgentCard {
	card := AgentCard{
		Name:               s.cfg.Name,
		Description:        s.cfg.Description,
		URL:                s.cfg.URL,
		Version:            s.cfg.Version,
		ProtocolVersion:    ProtocolVersion,
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"text/plain", "application/json"},
		Skills:             []Skill{},
	}
	for _, t := range s.registry.Tools() {
		card.Skills = append(card.Skills, Skill{
			ID:          t.Name,
			Name:        t.Name,
			Description: t.Description,
			Tags:        []string{strings.SplitN(t.Name, "_", 2)[0]},
		})
	}
	return card
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Warn().Str("path", r.URL.Path).Msg("Rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleCard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Card())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.OpenAITools())
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, &RPCError{Code: ParseError, Message: "parse error: " + err.Error()})
		return
	}
	if req.JSONRPC != JSONRPCVersion || req.Method == "" {
		s.writeError(w, req.ID, &RPCError{Code: InvalidRequest, Message: "invalid request"})
		return
	}
	if req.Method != MethodSendMessage {
		s.writeError(w, req.ID, &RPCError{Code: MethodNotFound, Message: "method not found: " + req.Method})
		return
	}

	var params SendParams
	if len(req.Params) == 0 {
		s.writeError(w, req.ID, &RPCError{Code: InvalidParams, Message: "missing params"})
		return
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.writeError(w, req.ID, &RPCError{Code: InvalidParams, Message: "invalid params: " + err.Error()})
		return
	}

	reply, rpcErr := s.handleMessage(r.Context(), params.Message)
	if rpcErr != nil {
		s.writeError(w, req.ID, rpcErr)
		return
	}
	s.writeResult(w, req.ID, reply)
}

func (s *Server) handleMessage(ctx context.Context, msg Message) (*Message, *RPCError) {
	if len(msg.Parts) == 0 {
		return nil, &RPCError{Code: InvalidParams, Message: "message has no parts"}
	}

	contextID := msg.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	ctx = session.WithID(ctx, contextID)

	inv, ok := msg.Invocation()
	if !ok {
		text := strings.TrimSpace(msg.Text())
		if s.cfg.DefaultSkill == "" || text == "" {
			return nil, &RPCError{Code: InvalidParams, Message: "message names no skill"}
		}
		inv = Invocation{Skill: s.cfg.DefaultSkill, Args: map[string]any{s.cfg.DefaultArg: text}}
	}

	result, err := s.registry.Call(ctx, inv.Skill, inv.Args)
	if err != nil {
		var argsErr *tools.ArgsError
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			return nil, &RPCError{Code: InvalidParams, Message: "unknown skill: " + inv.Skill}
		case errors.As(err, &argsErr):
			return nil, &RPCError{Code: InvalidParams, Message: argsErr.Error(), Data: argsErr.Problems}
		}
		s.logger.Error().Err(err).Str("skill", inv.Skill).Str("context_id", contextID).Msg("Skill failed")
		return nil, &RPCError{Code: InternalError, Message: err.Error()}
	}

	reply := &Message{
		Kind:      "message",
		Role:      RoleAgent,
		MessageID: uuid.NewString(),
		ContextID: contextID,
	}
	if text, ok := result.(string); ok {
		reply.Parts = []Part{TextPart(text)}
	} else {
		reply.Parts = []Part{DataPart(result)}
	}
	return reply, nil
}

func (s *Server) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.writeError(w, id, &RPCError{Code: InternalError, Message: "encode result: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Result: raw})
}

func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *RPCError) {
	s.logger.Debug().Int("code", rpcErr.Code).Str("message", rpcErr.Message).Msg("JSON-RPC error")
	writeJSON(w, http.StatusOK, Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Error: rpcErr})
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
