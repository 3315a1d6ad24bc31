package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/spellrule"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 10 * time.Second

// RequestIDHeader carries the request ID in requests and responses.
const RequestIDHeader = "X-Request-Id"

// Server serves the spellrule HTTP API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Logger *slog.Logger

	RuleService spellrule.RuleService
	PageService spellrule.PageService
}

// NewServer returns a new Server with routes registered. Services must be
// assigned before Open is called.
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		Logger: slog.Default(),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.Use(s.requestID)
	s.router.Use(s.logRequest)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.registerRuleRoutes(s.router)
	s.registerSpellRoutes(s.router)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, spellrule.Errorf(spellrule.ENOTFOUND, "no route for %s %s", r.Method, r.URL.Path))
	})

	return s
}

// Handler returns the router serving all API routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open binds the listener. Call Serve to start handling requests.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// Serve handles requests on the listener bound by Open until Close is called.
// Returns nil after a graceful shutdown.
func (s *Server) Serve() error {
	if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server, waiting up to ShutdownTimeout.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type requestIDKey struct{}

// RequestIDFromContext returns the request ID assigned by the server.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestID reuses a client supplied X-Request-Id or assigns a new UUID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.Logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", RequestIDFromContext(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	spellrule.EINVALID:      http.StatusBadRequest,
	spellrule.ENOTFOUND:     http.StatusNotFound,
	spellrule.ESELECTOR:     http.StatusUnprocessableEntity,
	spellrule.ESELECTORMISS: http.StatusUnprocessableEntity,
	spellrule.EFETCH:        http.StatusBadGateway,
	spellrule.ESPELL:        http.StatusServiceUnavailable,
	spellrule.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Internal errors are logged and
// reported with a generic message.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := spellrule.ErrorCode(err), spellrule.ErrorMessage(err)
	if code == spellrule.EINTERNAL {
		s.Logger.Error("internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"err", err,
		)
	}
	s.writeJSON(w, ErrorStatusCode(code), &ErrorResponse{Code: code, Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// param returns the value of a query or form parameter and whether it was
// present at all.
func param(r *http.Request, key string) (string, bool, error) {
	if err := r.ParseForm(); err != nil {
		return "", false, spellrule.Errorf(spellrule.EINVALID, "invalid parameters: %v", err)
	}
	vs, ok := r.Form[key]
	if !ok || len(vs) == 0 {
		return "", false, nil
	}
	return vs[0], true, nil
}

// requiredParam returns a parameter that must be present and non-blank.
func requiredParam(r *http.Request, key string) (string, error) {
	v, _, err := param(r, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", spellrule.Errorf(spellrule.EINVALID, "%s parameter required", key)
	}
	return v, nil
}
