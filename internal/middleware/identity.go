package middleware

// identity.go holds the helpers that name the caller for keys built by
// other middleware.

import (
    "github.com/labstack/echo/v4"
)

// sessionKey returns the session id of the request, or "anon" when the
// Session middleware has not run.
func sessionKey(c echo.Context) string {
    if v, ok := c.Get(ctxSessionID).(string); ok && v != "" {
        return v
    }
    return "anon"
}

// clientIP returns the caller address as seen through proxies.
func clientIP(c echo.Context) string {
    if ip := c.RealIP(); ip != "" {
        return ip
    }
    return "unknown"
}
