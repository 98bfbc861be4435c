package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/employee-portal/internal/flow"
    "github.com/iliyamo/employee-portal/internal/middleware"
    "github.com/iliyamo/employee-portal/internal/session"
    "github.com/iliyamo/employee-portal/internal/validation"
    "github.com/iliyamo/employee-portal/internal/workflow"
)

// requestTimeout bounds the backend work of one page.  A registration makes
// two backend calls, each bounded by the API client's own timeout.
const requestTimeout = 30 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// currentSession returns the request's session.  The Session middleware
// always runs before any handler, so a missing one is a wiring error.
func currentSession(c echo.Context) (*session.Session, error) {
    sess := middleware.CurrentSession(c)
    if sess == nil {
        return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
    }
    return sess, nil
}

// bindForm builds a draft from the posted values of the schema's fields.
func bindForm(c echo.Context, schema validation.Schema) *validation.Form {
    form := validation.NewForm(schema, nil)
    for _, f := range schema {
        form.Set(f.Name, c.FormValue(f.Name))
    }
    return form
}

// follow turns a workflow Result into a redirect, storing its flash first.
func follow(c echo.Context, sess *session.Session, res workflow.Result) error {
    if res.FlashText != "" {
        if err := sess.AddFlash(c.Request().Context(), res.FlashKind, res.FlashText); err != nil {
            c.Logger().Warnf("store flash: %v", err)
        }
    }
    return c.Redirect(http.StatusSeeOther, res.Redirect)
}

// viewStatus maps a load's state onto the response status.
func viewStatus(s flow.State) int {
    if s == flow.Error {
        return http.StatusBadGateway
    }
    return http.StatusOK
}

// employeeID parses the :id path parameter.
func employeeID(c echo.Context) (int64, error) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        return 0, echo.NewHTTPError(http.StatusNotFound, "Employee not found")
    }
    return id, nil
}
