package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/employee-portal/internal/flow"
    "github.com/iliyamo/employee-portal/internal/service"
    "github.com/iliyamo/employee-portal/internal/validation"
    "github.com/iliyamo/employee-portal/internal/workflow"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmployeesHandler serves the admin's employee list and its row actions.
type EmployeesHandler struct {
    Flows *workflow.Controller
}

func NewEmployeesHandler(w *workflow.Controller) *EmployeesHandler {
    return &EmployeesHandler{Flows: w}
}

// List renders all employees.  The list is fetched again on every visit,
// which is how a delete shows up.
func (h *EmployeesHandler) List(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    v := h.Flows.Employees(ctx, sess)
    if v.Redirect != "" {
        return c.Redirect(http.StatusSeeOther, v.Redirect)
    }
    p := newPage(c, "All Employees")
    p.Error = v.Message
    p.Employees = v.Data
    return c.Render(viewStatus(v.State), "employees", p)
}

// Export downloads the employee list as a spreadsheet.
func (h *EmployeesHandler) Export(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    v := h.Flows.Employees(ctx, sess)
    if v.Redirect != "" {
        return c.Redirect(http.StatusSeeOther, v.Redirect)
    }
    if v.State != flow.Ready {
        p := newPage(c, "All Employees")
        p.Error = v.Message
        return c.Render(viewStatus(v.State), "employees", p)
    }
    raw, err := service.EmployeeWorkbook(v.Data)
    if err != nil {
        c.Logger().Errorf("employee export: %v", err)
        return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export employees")
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="employees.xlsx"`)
    return c.Blob(http.StatusOK, xlsxContentType, raw)
}

// EditForm loads one employee into the update form.
func (h *EmployeesHandler) EditForm(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    id, err := employeeID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    v := h.Flows.EditForm(ctx, sess, id)
    if v.Redirect != "" {
        return c.Redirect(http.StatusSeeOther, v.Redirect)
    }
    p := newPage(c, "Update Employee")
    p.Error = v.Message
    p.Form = v.Data
    p.Action = editPath(id)
    return c.Render(viewStatus(v.State), "edit", p)
}

// Update submits the update form.  On failure the posted draft is shown
// again with the error.
func (h *EmployeesHandler) Update(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    id, err := employeeID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    form := bindForm(c, validation.UpdateSchema)
    res := h.Flows.Update(ctx, sess, id, form)
    if res.Redirect != "" {
        return follow(c, sess, res)
    }
    p := newPage(c, "Update Employee")
    p.Form = form
    p.Action = editPath(id)
    return c.Render(http.StatusOK, "edit", p)
}

// ConfirmDelete asks for confirmation before deleting.
func (h *EmployeesHandler) ConfirmDelete(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    id, err := employeeID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    v := h.Flows.Employee(ctx, sess, id)
    if v.Redirect != "" {
        return c.Redirect(http.StatusSeeOther, v.Redirect)
    }
    p := newPage(c, "Delete Employee")
    p.Error = v.Message
    if v.State == flow.Ready {
        p.Employee = &v.Data
    }
    p.Action = deletePath(id)
    p.Confirm = workflow.DeleteConfirmMessage
    return c.Render(viewStatus(v.State), "delete", p)
}

// Delete removes the employee when the form confirms it with confirm=yes.
func (h *EmployeesHandler) Delete(c echo.Context) error {
    sess, err := currentSession(c)
    if err != nil {
        return err
    }
    id, err := employeeID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    confirmed := c.FormValue("confirm") == "yes"
    return follow(c, sess, h.Flows.Delete(ctx, sess, id, func() bool { return confirmed }))
}

func editPath(id int64) string   { return workflow.EmployeesPath + "/" + strconv.FormatInt(id, 10) + "/edit" }
func deletePath(id int64) string { return workflow.EmployeesPath + "/" + strconv.FormatInt(id, 10) + "/delete" }
