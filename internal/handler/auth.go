package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-portal/internal/flow"
	"github.com/iliyamo/employee-portal/internal/validation"
	"github.com/iliyamo/employee-portal/internal/workflow"
)

// AuthHandler serves the sign-in, sign-out and registration pages.
type AuthHandler struct {
	Flows *workflow.Controller
}

func NewAuthHandler(w *workflow.Controller) *AuthHandler {
	return &AuthHandler{Flows: w}
}

// Home sends signed-in users to their dashboard and everyone else to login.
func (h *AuthHandler) Home(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		return c.Redirect(http.StatusSeeOther, workflow.LoginPath)
	}
	return c.Redirect(http.StatusSeeOther, workflow.DashboardFor(sess.Role()))
}

// ShowLogin renders the login form.  ?expired=1 adds the session-expired
// notice shown after the backend rejected the token.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	p := newPage(c, "Login")
	p.Form = validation.NewForm(validation.LoginSchema, nil)
	p.Action = workflow.LoginPath
	if c.QueryParam("expired") == "1" {
		p.Notice = flow.UnauthorizedMessage
	}
	return c.Render(http.StatusOK, "login", p)
}

// Login submits the login form.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	form := bindForm(c, validation.LoginSchema)
	res := h.Flows.Login(ctx, sess, form)
	if res.Redirect != "" {
		return follow(c, sess, res)
	}
	form.Values["password"] = ""
	p := newPage(c, "Login")
	p.Form = form
	p.Action = workflow.LoginPath
	return c.Render(http.StatusOK, "login", p)
}

// Logout clears the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	return follow(c, sess, h.Flows.Logout(ctx, sess))
}

// ShowRegister renders an empty registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	p := newPage(c, "Register Employee")
	p.Form = validation.NewForm(validation.RegisterSchema, nil)
	p.Action = "/register"
	return c.Render(http.StatusOK, "register", p)
}

// Register submits the registration form.  On success the page shows the
// success notice and moves on to the admin dashboard after the configured
// delay.
func (h *AuthHandler) Register(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	form := bindForm(c, validation.RegisterSchema)
	res := h.Flows.Register(ctx, sess, form)

	p := newPage(c, "Register Employee")
	p.Form = form
	p.Action = "/register"
	if res.Redirect != "" {
		if res.RedirectAfter <= 0 {
			return follow(c, sess, res)
		}
		// the draft is discarded; only the notice stays on the page
		p.Form = validation.NewForm(validation.RegisterSchema, nil)
		p.Form.Success = form.Success
		p.RedirectTo = res.Redirect
		p.RedirectAfterMs = res.RedirectAfter.Milliseconds()
	}
	return c.Render(http.StatusOK, "register", p)
}
