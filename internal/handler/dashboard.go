package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/employee-portal/internal/flow"
    "github.com/iliyamo/employee-portal/internal/model"
    "github.com/iliyamo/employee-portal/internal/repository"
    "github.com/iliyamo/employee-portal/internal/workflow"
)

// recentActivityLimit is how many entries the employee dashboard lists.
const recentActivityLimit = 10

// ActivityLister reads recorded activity for one employee.
// *repository.ActivityRepo implements it.
type ActivityLister interface {
    ListForEmployee(ctx context.Context, email string, employeeID int64, limit int) ([]model.Activity, error)
}

// DashboardHandler serves the two landing pages.
type DashboardHandler struct {
    Flows    *workflow.Controller
    Activity ActivityLister // optional
}

func NewDashboardHandler(w *workflow.Controller, a ActivityLister) *DashboardHandler {
    return &DashboardHandler{Flows: w, Activity: a}
}

// Admin shows the signed-in admin's profile.
func (h *DashboardHandler) Admin(c echo.Context) error {
    return h.profilePage(c, "admin_dashboard", "Admin Dashboard", workflow.AdminProfileFailedMessage)
}

// Employee shows the signed-in employee's profile and recent activity.
func (h *DashboardHandler) Employee(c echo.Context) error {
    return h.profilePage(c, "employee_dashboard", "Employee Dashboard", workflow.ProfileFailedMessage)
}

func (h *DashboardHandler) profilePage(c echo.Context, page, title, failure string) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    v := h.Flows.Profile(ctx, sess, failure)
    if v.Redirect != "" {
        return c.Redirect(http.StatusSeeOther, v.Redirect)
    }
    p := newPage(c, title)
    if v.State != flow.Ready {
        p.Error = v.Message
        return c.Render(viewStatus(v.State), page, p)
    }
    p.Profile = &v.Data
    if page == "employee_dashboard" {
        p.Activity = h.recentActivity(c, ctx, v.Data)
    }
    return c.Render(http.StatusOK, page, p)
}

// recentActivity is best effort: without a store, or when it fails, the
// panel is simply empty.
func (h *DashboardHandler) recentActivity(c echo.Context, ctx context.Context, e model.Employee) []model.Activity {
    if h.Activity == nil {
        return nil
    }
    items, err := h.Activity.ListForEmployee(ctx, e.Email, e.ID, recentActivityLimit)
    if err != nil {
        if !errors.Is(err, repository.ErrUnavailable) {
            c.Logger().Warnf("recent activity for %s: %v", e.Email, err)
        }
        return nil
    }
    return items
}
