// Package workflow orchestrates the portal's submit flows: login, logout,
// registration, employee update and delete.  Each flow runs strictly in
// order (validate, check, submit, navigate) and admits one outstanding
// submit per session and flow.
package workflow

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/flow"
	"github.com/iliyamo/employee-portal/internal/model"
	"github.com/iliyamo/employee-portal/internal/queue"
)

// Navigation targets.
const (
	AdminDashboardPath    = "/admin/dashboard"
	EmployeeDashboardPath = "/employee/dashboard"
	EmployeesPath         = "/employees"
	LoginPath             = "/login"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// DefaultRegisterDelay is how long the registration success notice stays
// before the browser moves on to the admin dashboard.
const DefaultRegisterDelay = 1500 * time.Millisecond

// Backend is the employee REST backend as seen by the workflows.  It is
// implemented by *api.Client.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	CheckEmailExists(ctx context.Context, email string) bool
	Register(ctx context.Context, e model.Employee) error
	GetProfile(ctx context.Context, creds api.Credentials) (model.Employee, error)
	ListEmployees(ctx context.Context, creds api.Credentials) ([]model.Employee, error)
	GetEmployee(ctx context.Context, creds api.Credentials, id int64) (model.Employee, error)
	UpdateEmployee(ctx context.Context, creds api.Credentials, id int64, e model.Employee) error
	DeleteEmployee(ctx context.Context, creds api.Credentials, id int64) error
}

// Session is the browser session a workflow runs for.
type Session interface {
	api.Credentials
	ID() string
	Role() string
	Renew(ctx context.Context) error
	Set(ctx context.Context, token, refreshToken, role string) error
}

// Publisher receives activity events.  Failures are the publisher's to log;
// they never fail a workflow.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// Result tells the caller where to go next.  An empty Redirect means the
// form should be rendered again.  RedirectAfter delays the navigation so a
// notice can be read first.
type Result struct {
	Redirect      string
	RedirectAfter time.Duration
	FlashKind     string
	FlashText     string
}

// Controller runs the workflows against a Backend.
type Controller struct {
	api           Backend
	guard         Guard
	events        Publisher
	registerDelay time.Duration
}

// New returns a Controller.  A nil guard admits every submit; a nil
// publisher drops events.
func New(b Backend, g Guard, p Publisher, registerDelay time.Duration) *Controller {
	if registerDelay <= 0 {
		registerDelay = DefaultRegisterDelay
	}
	return &Controller{api: b, guard: g, events: p, registerDelay: registerDelay}
}

// acquire takes the in-flight slot for op within sess.
func (w *Controller) acquire(ctx context.Context, sess Session, op string) (func(), bool) {
	if w.guard == nil {
		return func() {}, true
	}
	return w.guard.Acquire(ctx, sess.ID()+":"+op)
}

func (w *Controller) publish(ctx context.Context, ev queue.ActivityEvent) {
	if w.events == nil {
		return
	}
	_ = w.events.Publish(ctx, ev)
}

// DashboardFor returns the landing page for role.
func DashboardFor(role string) string {
	if role == model.RoleAdmin {
		return AdminDashboardPath
	}
	return EmployeeDashboardPath
}

func toLogin() Result { return Result{Redirect: flow.LoginPath} }

func opKey(op string, id int64) string { return op + ":" + strconv.FormatInt(id, 10) }
