package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/employee-portal/internal/flow"
    "github.com/iliyamo/employee-portal/internal/workflow"
)

// RequireRole returns a middleware that admits only signed-in sessions whose
// role is one of roles.  Pages are navigated to, not called, so instead of
// a 401/403 body the browser is redirected: to the login page when there is
// no token, and to its own dashboard when the role does not match.  Calling
// it with no roles admits any signed-in session.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sess := CurrentSession(c)
            if sess == nil || !sess.Authenticated() {
                return c.Redirect(http.StatusSeeOther, flow.LoginPath)
            }
            role := sess.Role()
            if len(allowed) > 0 && !allowed[role] {
                return c.Redirect(http.StatusSeeOther, workflow.DashboardFor(role))
            }
            return next(c)
        }
    }
}
