package middleware // middleware contains reusable HTTP middleware for the portal

import (
    "net/http" // cookie and status helpers
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/employee-portal/internal/session"
    "github.com/iliyamo/employee-portal/internal/utils"
)

// CookieName is the cookie that carries the signed session id.
const CookieName = "portal_session"

// Context keys set by Session.
const (
    ctxSession   = "session"
    ctxSessionID = "session_id"
    ctxRole      = "role"
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
    Store  *session.Store
    Secret string        // HS256 key for the cookie token
    TTL    time.Duration // cookie lifetime, renewed on every request
    Secure bool
}

// Session loads the browser's session before the handler runs.  The cookie
// holds a JWT whose sid claim names the server-side session; a missing,
// expired or forged cookie simply starts a new session.  The cookie is
// re-issued on every response, under the session's id at that time, so an
// active browser keeps its session and a renewed session moves with it.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := ""
            if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
                if id, err := utils.ParseSessionToken(cfg.Secret, ck.Value); err == nil {
                    sid = id
                }
            }
            if sid == "" {
                sid = utils.NewSessionID()
            }

            sess, err := cfg.Store.Open(c.Request().Context(), sid)
            if err != nil {
                c.Logger().Errorf("session load %s: %v", sid, err)
                return echo.NewHTTPError(http.StatusServiceUnavailable, "Session storage is unavailable. Please try again later.")
            }

            c.Response().Before(func() {
                tok, err := utils.NewSessionToken(cfg.Secret, sess.ID(), cfg.TTL)
                if err != nil {
                    c.Logger().Errorf("session cookie %s: %v", sess.ID(), err)
                    return
                }
                c.SetCookie(&http.Cookie{
                    Name:     CookieName,
                    Value:    tok.Token,
                    Path:     "/",
                    Expires:  tok.Exp,
                    HttpOnly: true,
                    Secure:   cfg.Secure,
                    SameSite: http.SameSiteLaxMode,
                })
            })

            SetSession(c, sess)
            return next(c)
        }
    }
}

// SetSession attaches sess to the request context.
func SetSession(c echo.Context, sess *session.Session) {
    c.Set(ctxSession, sess)
    c.Set(ctxSessionID, sess.ID())
    c.Set(ctxRole, sess.Role())
}

// CurrentSession returns the session loaded by Session, or nil when the
// middleware did not run.
func CurrentSession(c echo.Context) *session.Session {
    s, _ := c.Get(ctxSession).(*session.Session)
    return s
}
