package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DPlauder/meisterplan/internal/observe"
)

const loginPath = "/auth/login"

var ErrEmptyToken = errors.New("gateway returned no access token")

// Session is the credential issued by the gateway. ExpiresAt is zero when the
// token is opaque or carries no exp claim.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	gw       Gateway
	observer observe.Observer
}

func NewAuthService(gw Gateway, obs observe.Observer) *AuthService {
	if obs == nil {
		obs = observe.Nop
	}
	return &AuthService{gw: gw, observer: obs}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (_ *Session, err error) {
	start := time.Now()
	defer func() {
		s.observer.Observe(ctx, observe.Event{
			Op:       observe.OpLogin,
			Entity:   "session",
			Key:      email,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := s.gw.Do(ctx, http.MethodPost, loginPath, payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, ErrEmptyToken
	}

	return &Session{Token: resp.AccessToken, ExpiresAt: tokenExpiry(resp.AccessToken)}, nil
}

// tokenExpiry reads the exp claim without verifying the signature.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
