package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/model"
	"github.com/iliyamo/employee-portal/internal/queue"
	"github.com/iliyamo/employee-portal/internal/validation"
)

// User-facing messages of the auth flows.
const (
	LoginFailedMessage    = "Login failed. Please try again."
	LoginErrorMessage     = "Error logging in. Please try again later."
	LoggedOutMessage      = "Logged out successfully"
	EmailTakenMessage     = "This email is already registered."
	RegisteredMessage     = "Registered successfully!"
	RegisterFailedMessage = "Error registering employee."
	RegisterErrorMessage  = "Something went wrong. Please try again."
)

// Login signs the session in and sends the user to the dashboard for the
// role the backend returned.
func (w *Controller) Login(ctx context.Context, sess Session, form *validation.Form) Result {
	release, ok := w.acquire(ctx, sess, "login")
	if !ok {
		form.Message = BusyMessage
		return Result{}
	}
	defer release()

	form.Message = ""
	if !form.Validate() {
		return Result{}
	}
	email := strings.TrimSpace(form.Value("email"))
	res, err := w.api.Login(ctx, email, form.Value("password"))
	if err != nil {
		if errors.Is(err, api.ErrTransport) {
			form.Message = LoginErrorMessage
		} else {
			form.Message = api.Message(err, LoginFailedMessage)
		}
		return Result{}
	}
	// a signed-in session never keeps the id it had before
	if err := sess.Renew(ctx); err != nil {
		form.Message = LoginErrorMessage
		return Result{}
	}
	if err := sess.Set(ctx, res.Token, res.RefreshToken, res.Role); err != nil {
		form.Message = LoginErrorMessage
		return Result{}
	}
	w.publish(ctx, queue.NewActivityEvent(queue.EventLogin, email, 0, res.Role))
	return Result{Redirect: DashboardFor(res.Role)}
}

// Logout clears the session and returns to the login page.
func (w *Controller) Logout(ctx context.Context, sess Session) Result {
	role := sess.Role()
	_ = sess.ClearAll(ctx)
	if role != "" {
		w.publish(ctx, queue.NewActivityEvent(queue.EventLogout, "", 0, role))
	}
	return Result{Redirect: LoginPath, FlashKind: FlashSuccess, FlashText: LoggedOutMessage}
}

// Register validates the draft, rejects already registered emails and
// creates the employee.  On success the form carries the success notice and
// the caller navigates to the admin dashboard after the configured delay.
//
// The email lookup fails open: when it cannot be answered the submit goes
// ahead and the backend is left to reject a duplicate.
func (w *Controller) Register(ctx context.Context, sess Session, form *validation.Form) Result {
	release, ok := w.acquire(ctx, sess, "register")
	if !ok {
		form.Message = BusyMessage
		return Result{}
	}
	defer release()

	form.Message = ""
	form.Success = ""
	if !form.Validate() {
		return Result{}
	}
	e := model.EmployeeFromValues(form.Values)
	if w.api.CheckEmailExists(ctx, e.Email) {
		form.Errors["email"] = EmailTakenMessage
		return Result{}
	}
	if err := w.api.Register(ctx, e); err != nil {
		if errors.Is(err, api.ErrTransport) {
			form.Message = RegisterErrorMessage
		} else {
			form.Message = api.Message(err, RegisterFailedMessage)
		}
		return Result{}
	}
	form.Success = RegisteredMessage
	w.publish(ctx, queue.NewActivityEvent(queue.EventRegistered, e.Email, 0, sess.Role()))
	return Result{Redirect: AdminDashboardPath, RedirectAfter: w.registerDelay}
}
