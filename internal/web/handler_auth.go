package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DPlauder/meisterplan/internal/service"
	"github.com/DPlauder/meisterplan/internal/session"
)

type loginPage struct {
	page
	LoginEmail string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.basePage(r, "Home", "home"), "pages/home.html")
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, loginPage{page: s.basePage(r, "Sign in", "login")}, "pages/login.html")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	data := loginPage{page: s.basePage(r, "Sign in", "login"), LoginEmail: email}
	if email == "" || password == "" {
		data.Error = "Email and password are required"
		s.render(w, http.StatusBadRequest, data, "pages/login.html")
		return
	}

	cred, err := service.NewAuthService(s.client, s.observer).Login(r.Context(), email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		data.Error = userMessage(err)
		if errors.Is(err, service.ErrEmptyToken) {
			data.Error = "Sign-in failed"
		}
		s.render(w, statusFor(err), data, "pages/login.html")
		return
	}

	// A new id on sign-in; the anonymous session is discarded.
	old := sessionFrom(r.Context())
	id, err := s.sessions.Create(r.Context(), session.Data{
		Email:     email,
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
	})
	if err != nil {
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		s.logger.Error("create session error", "error", err)
		return
	}
	if old.ID != "" {
		if err := s.sessions.Delete(r.Context(), old.ID); err != nil {
			s.logger.Error("delete session error", "error", err)
		}
	}
	s.setSessionCookie(w, id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.ID != "" {
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			s.logger.Error("delete session error", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
