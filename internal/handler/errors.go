package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
)

// ErrorHandler renders failures as the error page instead of echo's JSON
// body.  Server errors are logged; their detail never reaches the page.
func ErrorHandler(err error, c echo.Context) {
    if c.Response().Committed {
        return
    }
    code := http.StatusInternalServerError
    msg := "Something went wrong. Please try again."
    var he *echo.HTTPError
    if errors.As(err, &he) {
        code = he.Code
        if s, ok := he.Message.(string); ok && (code < http.StatusInternalServerError || code == http.StatusServiceUnavailable) {
            msg = s
        }
    }
    if code >= http.StatusInternalServerError {
        c.Logger().Error(err)
    }

    if c.Request().Method == http.MethodHead {
        _ = c.NoContent(code)
        return
    }
    p := newPage(c, http.StatusText(code))
    p.Error = msg
    if rerr := c.Render(code, "error", p); rerr != nil {
        c.Logger().Error(rerr)
        _ = c.String(code, msg)
    }
}
