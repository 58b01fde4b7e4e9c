package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/gateway"
	"github.com/DPlauder/meisterplan/internal/observe"
	"github.com/DPlauder/meisterplan/internal/service"
	"github.com/DPlauder/meisterplan/internal/session"
	"github.com/DPlauder/meisterplan/internal/store"
)

// AuditLog is the read side of the audit store.
type AuditLog interface {
	List(ctx context.Context, f store.AuditFilter) ([]domain.AuditEvent, error)
}

type Options struct {
	// Collation orders text columns in list views.
	Collation language.Tag
	// ResetDelay is how long the success view stays before the form is
	// shown empty again.
	ResetDelay time.Duration
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
}

type Server struct {
	client    *gateway.Client
	sessions  session.Store
	audit     AuditLog
	observer  observe.Observer
	templates fs.FS
	mux       *http.ServeMux
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

func NewServer(client *gateway.Client, sessions session.Store, audit AuditLog, obs observe.Observer, tmpl fs.FS, opts Options, logger *slog.Logger) *Server {
	if obs == nil {
		obs = observe.Nop
	}
	if opts.Collation == language.Und {
		opts.Collation = language.German
	}
	s := &Server{
		client:    client,
		sessions:  sessions,
		audit:     audit,
		observer:  obs,
		templates: tmpl,
		mux:       http.NewServeMux(),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /activity", s.handleActivity)

	newCustomerSection(s).register(s.mux)
	newProductSection(s).register(s.mux)
	newInventorySection(s).register(s.mux)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.withSession(s.mux))).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").ParseFS(s.templates, append([]string{"base.html"}, files...)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (s *Server) render(w http.ResponseWriter, status int, data any, file string) {
	if err := s.renderPage(w, status, data, file); err != nil {
		s.logger.Error("render page error", "page", file, "error", err)
	}
}

// basePage fills the layout fields from the request's session.
func (s *Server) basePage(r *http.Request, title, nav string) page {
	sess := sessionFrom(r.Context())
	return page{
		Title:     title,
		ActiveNav: nav,
		SignedIn:  sess.Data.Token != "",
		Email:     sess.Data.Email,
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg, back string) {
	p := s.basePage(r, "Something went wrong", "")
	p.Error = msg
	s.render(w, status, errorPage{page: p, BackURL: back}, "pages/error.html")
}

// gatewayFor returns a client carrying the request session's credential.
func (s *Server) gatewayFor(r *http.Request) *gateway.Client {
	return s.client.WithCredentials(gateway.Credentials{Token: sessionFrom(r.Context()).Data.Token})
}

// userMessage is the text shown to the user for a failed gateway call.
func userMessage(err error) string {
	var statusErr *gateway.StatusError
	var deleteErr *service.DeleteError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Message
	case errors.As(err, &deleteErr):
		return deleteErr.Error()
	default:
		return "The server could not be reached."
	}
}

// statusFor maps a gateway failure to the dashboard's response status.
func statusFor(err error) int {
	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return statusErr.Status
		}
	}
	return http.StatusBadGateway
}
