// Package session keeps per-browser dashboard state between requests: the
// gateway credential, delete keys staged for confirmation and spent form
// submit tokens.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// CookieName is the cookie carrying the session id.
const CookieName = "meisterplan_session"

type Data struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	// Pending maps an entity name to the key staged for deletion.
	Pending map[string]string `json:"pending,omitempty"`
}

// Expired reports whether the credential has a known expiry before now.
func (d *Data) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}

func (d *Data) PendingKey(entity string) (string, bool) {
	key, ok := d.Pending[entity]
	return key, ok
}

func (d *Data) SetPending(entity, key string) {
	if d.Pending == nil {
		d.Pending = make(map[string]string)
	}
	d.Pending[entity] = key
}

func (d *Data) ClearPending(entity string) {
	delete(d.Pending, entity)
}

type Store interface {
	Create(ctx context.Context, d Data) (string, error)
	Get(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, d Data) error
	Delete(ctx context.Context, id string) error
	// Claim marks a submit token as used. It reports true only for the
	// first claim of a token within a session.
	Claim(ctx context.Context, id, token string) (bool, error)
}

func newID() string {
	return uuid.NewString()
}

// NewSubmitToken returns a fresh token for a rendered form.
func NewSubmitToken() string {
	return uuid.NewString()
}
