package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned by stores when nothing has been persisted yet.
var ErrNoSession = errors.New("no saved session")

// AuthState tracks where the authenticator ended up.
type AuthState string

const (
	StateNoSession     AuthState = "no_session"
	StateSessionLoaded AuthState = "session_loaded"
	StateAuthenticated AuthState = "authenticated"
	StateFailed        AuthState = "failed"
)

// Session is the opaque credential bundle. Only the publisher interprets Token and Cookies.
type Session struct {
	Username    string            `json:"username"`
	UserID      string            `json:"user_id,omitempty"`
	Token       string            `json:"token"`
	Cookies     map[string]string `json:"cookies,omitempty"`
	DeviceID    string            `json:"device_id"`
	CreatedAt   time.Time         `json:"created_at"`
	RefreshedAt time.Time         `json:"refreshed_at"`
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Cookies != nil {
		clone.Cookies = make(map[string]string, len(s.Cookies))
		for k, v := range s.Cookies {
			clone.Cookies[k] = v
		}
	}
	return &clone
}

type Credentials struct {
	Username string
	Password string
}

// Complete reports whether a login call can be attempted.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// ISessionStore persists a single session at one well-known location.
type ISessionStore interface {
	// Exists reports whether a session has been persisted.
	Exists(ctx context.Context) (bool, error)

	// Load returns ErrNoSession when nothing is stored.
	Load(ctx context.Context) (*Session, error)

	// Save overwrites whatever is stored.
	Save(ctx context.Context, s *Session) error

	// Location describes where the session lives, for log lines.
	Location() string
}
