package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http" // net/http provides status codes and response helpers
    "sort"
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Check reports whether one optional dependency is reachable.
type Check func(ctx context.Context) error

// Health returns a liveness endpoint.  It always answers 200 while the
// process serves requests; the body reports each optional dependency as
// "ok" or "down" so an operator can see which fallbacks are in use.
func Health(checks map[string]Check) echo.HandlerFunc {
    names := make([]string, 0, len(checks))
    for n := range checks {
        names = append(names, n)
    }
    sort.Strings(names)

    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()

        body := map[string]string{"status": "ok"}
        for _, n := range names {
            if err := checks[n](ctx); err != nil {
                body[n] = "down"
                continue
            }
            body[n] = "ok"
        }
        return c.JSON(http.StatusOK, body)
    }
}
