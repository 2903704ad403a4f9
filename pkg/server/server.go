package server

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/config"
	"condexpr/pkg/diag"
	"condexpr/pkg/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Response is the JSON body for /parse and for every /ws reply.
type Response struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Digest      string         `json:"digest,omitempty"`
	AST         map[string]any `json:"ast,omitempty"`
	Canonical   string         `json:"string,omitempty"`
	Identifiers []string       `json:"identifiers,omitempty"`
	Stats       *ast.Stats     `json:"stats,omitempty"`
	Error       *ErrorBody     `json:"error,omitempty"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Pos     int    `json:"pos,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type Server struct {
	cfg config.ServerConfig
	svc *service.Service
	log *logrus.Entry

	upgrader websocket.Upgrader
	wsSeq    atomic.Int64
}

func New(cfg config.ServerConfig, svc *service.Service, log *logrus.Entry) *Server {
	return &Server{
		cfg: cfg,
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	mux.HandleFunc("/parse", s.logRequests(s.requireAuth(s.handleParse)))
	mux.HandleFunc("/ws", s.requireAuth(s.handleWebSocket))
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.WithFields(logrus.Fields{
		"addr": ln.Addr().String(),
		"auth": s.cfg.JWTSecret != "",
	}).Info("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("method", "use POST"))
		return
	}

	body := r.Body
	if limit := s.svc.Limits().MaxInputBytes; limit > 0 {
		body = http.MaxBytesReader(w, r.Body, int64(limit)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("too_large", service.ErrInputTooLarge.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("read", err.Error()))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "request"
	}
	resp, status := s.parse(r.Context(), name, string(data))
	writeJSON(w, status, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if limit := s.svc.Limits().MaxInputBytes; limit > 0 {
		conn.SetReadLimit(int64(limit))
	}

	session := s.wsSeq.Add(1)
	log := s.log.WithFields(logrus.Fields{"session": session, "subject": subjectFrom(r.Context())})
	log.Info("websocket opened")
	defer log.Info("websocket closed")

	for seq := 1; ; seq++ {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("websocket read ended")
			}
			return
		}
		if msgType != websocket.TextMessage {
			if err := conn.WriteJSON(errorResponse("message_type", "send source as text messages")); err != nil {
				return
			}
			continue
		}

		resp, _ := s.parse(r.Context(), fmt.Sprintf("ws#%d.%d", session, seq), string(msg))
		if err := conn.WriteJSON(resp); err != nil {
			log.WithError(err).Debug("websocket write failed")
			return
		}
	}
}

// parse runs one request through the service and maps the outcome to a
// response and HTTP status.
func (s *Server) parse(ctx context.Context, name, src string) (Response, int) {
	res, err := s.svc.Parse(ctx, name, src)
	if err == nil {
		stats := res.Stats
		return Response{
			ID:          res.ID,
			Name:        res.Name,
			Digest:      res.Digest,
			AST:         ast.Encode(res.Tree),
			Canonical:   res.Tree.String(),
			Identifiers: res.Identifiers,
			Stats:       &stats,
		}, http.StatusOK
	}

	if loc, ok := diag.Locate(err, src); ok {
		return Response{Name: name, Error: &ErrorBody{
			Kind:    diag.Kind(err),
			Message: err.Error(),
			Pos:     loc.Pos,
			Line:    loc.Line,
			Column:  loc.Column,
			Snippet: diag.Render(err, name, src),
		}}, http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, service.ErrInputTooLarge):
		return errorResponse("too_large", err.Error()), http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrTimeout):
		return errorResponse("timeout", err.Error()), http.StatusGatewayTimeout
	}
	s.log.WithError(err).Error("parse failed unexpectedly")
	return errorResponse("internal", err.Error()), http.StatusInternalServerError
}

func (s *Server) logRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"elapsed": time.Since(start),
		}).Info("request")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func errorResponse(kind, message string) Response {
	return Response{Error: &ErrorBody{Kind: kind, Message: message}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
