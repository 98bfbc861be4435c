// Package session holds the per-browser session of the portal: the bearer
// token, refresh token and role returned by the backend at login, plus a
// one-shot flash message.  A Session is an explicit object handed to every
// component that needs credentials; clearing it is authoritative.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Keys stored in a session.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyRole         = "role"

	keyFlashKind = "flashKind"
	keyFlashText = "flashText"
)

// Values is the raw key/value content of a session.
type Values map[string]string

// Backend persists session values by id.  Load returns an empty map and no
// error for unknown ids.  Save replaces the whole session; Update only
// touches the named fields, so concurrent requests for the same session
// cannot bring back values another request removed.
type Backend interface {
	Load(ctx context.Context, id string) (Values, error)
	Save(ctx context.Context, id string, v Values, ttl time.Duration) error
	Update(ctx context.Context, id string, set Values, del []string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

var flashKeys = []string{keyFlashKind, keyFlashText}

// Store opens sessions on top of a Backend.
type Store struct {
	backend Backend
	ttl     time.Duration
}

// NewStore returns a Store whose sessions expire after ttl of inactivity.
func NewStore(b Backend, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{backend: b, ttl: ttl}
}

// Open loads the session with the given id.  Unknown ids yield an empty
// session that is persisted on its first write.
func (s *Store) Open(ctx context.Context, id string) (*Session, error) {
	v, err := s.backend.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = Values{}
	}
	return &Session{id: id, store: s, values: v}, nil
}

// Session is one browser's session.  It is safe for concurrent use.
type Session struct {
	id    string
	store *Store

	mu     sync.Mutex
	values Values
}

// ID returns the session identifier carried in the cookie.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Renew moves the session to a fresh id and drops the old one.  Call it
// when the session gains privileges so an id known before sign-in is
// worthless afterwards.
func (s *Session) Renew(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	if err := s.store.backend.Save(ctx, id, s.copyLocked(), s.store.ttl); err != nil {
		return err
	}
	if err := s.store.backend.Delete(ctx, s.id); err != nil {
		return err
	}
	s.id = id
	return nil
}

// Set stores the credentials returned by a successful login.
func (s *Session) Set(ctx context.Context, token, refreshToken, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyToken] = token
	s.values[KeyRefreshToken] = refreshToken
	s.values[KeyRole] = role
	set := Values{KeyToken: token, KeyRefreshToken: refreshToken, KeyRole: role}
	return s.store.backend.Update(ctx, s.id, set, nil, s.store.ttl)
}

// Get returns the value of key and whether it is present and non-empty.
func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok && v != ""
}

// Role returns the stored role, empty when signed out.
func (s *Session) Role() string {
	v, _ := s.Get(KeyRole)
	return v
}

// Authenticated reports whether a token is present.  A present token may
// still be rejected by the backend.
func (s *Session) Authenticated() bool {
	_, ok := s.Get(KeyToken)
	return ok
}

// ClearAll wipes every value of the session, flash included.
func (s *Session) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = Values{}
	return s.store.backend.Delete(ctx, s.id)
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind string // success | error
	Text string
}

// AddFlash stores a notice for the next page.  Only the flash fields are
// written.
func (s *Session) AddFlash(ctx context.Context, kind, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyFlashKind] = kind
	s.values[keyFlashText] = text
	return s.store.backend.Update(ctx, s.id, Values{keyFlashKind: kind, keyFlashText: text}, nil, s.store.ttl)
}

// PopFlash returns and removes the pending notice.
func (s *Session) PopFlash(ctx context.Context) (Flash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.values[keyFlashText]
	if text == "" {
		return Flash{}, false
	}
	f := Flash{Kind: s.values[keyFlashKind], Text: text}
	for _, k := range flashKeys {
		delete(s.values, k)
	}
	_ = s.store.backend.Update(ctx, s.id, nil, flashKeys, s.store.ttl)
	return f, true
}

func (s *Session) copyLocked() Values {
	out := make(Values, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
