package utils // package utils provides helpers for issuing and reading session cookie tokens

import (
    "errors" // sentinel error for rejected cookies
    "time"   // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // random session identifiers
)

// ErrInvalidSessionToken is returned when a cookie value is not a valid,
// unexpired session token signed with our secret.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken represents a signed cookie value along with its expiry.
// The Token field contains the JWT string placed in the portal_session
// cookie.  SessionID is the server-side session key it points at.
type SessionToken struct {
    Token     string    // the serialized JWT string
    SessionID string    // the sid claim
    Exp       time.Time // the UTC expiration time
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
    return uuid.NewString()
}

// NewSessionToken builds and signs an HS256 JWT carrying the session id.
// The token never contains backend credentials; those stay server side.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sid": sessionID,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, SessionID: sessionID, Exp: exp}, nil
}

// ParseSessionToken validates raw and returns the session id it carries.
// Tokens signed with another algorithm or secret are rejected.
func ParseSessionToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSessionToken
        }
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil || !tok.Valid {
        return "", ErrInvalidSessionToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidSessionToken
    }
    sid, ok := claims["sid"].(string)
    if !ok || sid == "" {
        return "", ErrInvalidSessionToken
    }
    return sid, nil
}
