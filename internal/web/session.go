package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DPlauder/meisterplan/internal/session"
)

type sessionKey struct{}

// requestSession is the session loaded for one request.
type requestSession struct {
	ID   string
	Data session.Data
}

func sessionFrom(ctx context.Context) *requestSession {
	if sess, ok := ctx.Value(sessionKey{}).(*requestSession); ok {
		return sess
	}
	return &requestSession{}
}

// withSession loads the browser's session, starting a fresh one when the
// cookie is missing or stale. An expired credential is dropped.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.loadSession(w, r)
		if err != nil {
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			s.logger.Error("failed to load session", "error", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*requestSession, error) {
	ctx := r.Context()

	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		data, err := s.sessions.Get(ctx, c.Value)
		switch {
		case err == nil:
			sess := &requestSession{ID: c.Value, Data: *data}
			if sess.Data.Token != "" && sess.Data.Expired(s.now()) {
				sess.Data.Token = ""
				sess.Data.Email = ""
				sess.Data.ExpiresAt = time.Time{}
				if err := s.sessions.Save(ctx, sess.ID, sess.Data); err != nil {
					return nil, err
				}
			}
			return sess, nil
		case !errors.Is(err, session.ErrNotFound):
			return nil, err
		}
	}

	id, err := s.sessions.Create(ctx, session.Data{})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.setSessionCookie(w, id)
	return &requestSession{ID: id}, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) saveSession(r *http.Request) error {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Save(r.Context(), sess.ID, sess.Data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
