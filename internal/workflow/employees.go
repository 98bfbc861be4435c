package workflow

import (
	"context"

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/flow"
	"github.com/iliyamo/employee-portal/internal/model"
	"github.com/iliyamo/employee-portal/internal/queue"
	"github.com/iliyamo/employee-portal/internal/validation"
)

// User-facing messages of the employee flows.
const (
	AdminProfileFailedMessage = "Failed to load admin data."
	ProfileFailedMessage      = "Failed to load profile data."
	ListFailedMessage         = "Failed to load employees"
	LoadEmployeeFailedMessage = "Error loading employee data"
	UpdatedMessage            = "Employee updated successfully"
	UpdateFailedMessage       = "Failed to update employee"
	DeletedMessage            = "Employee deleted successfully"
	DeleteFailedMessage       = "Failed to delete employee"
	DeleteConfirmMessage      = "Are you sure you want to delete this employee?"
)

// Profile loads the signed-in user's own record.  failure is shown when the
// backend cannot answer.
func (w *Controller) Profile(ctx context.Context, sess Session, failure string) flow.View[model.Employee] {
	return flow.Load(ctx, sess, func(ctx context.Context) (model.Employee, error) {
		return w.api.GetProfile(ctx, sess)
	}, failure)
}

// Employees loads the employee list.
func (w *Controller) Employees(ctx context.Context, sess Session) flow.View[[]model.Employee] {
	return flow.Load(ctx, sess, func(ctx context.Context) ([]model.Employee, error) {
		return w.api.ListEmployees(ctx, sess)
	}, ListFailedMessage)
}

// Employee loads one employee, e.g. for the delete confirmation page.
func (w *Controller) Employee(ctx context.Context, sess Session, id int64) flow.View[model.Employee] {
	return flow.Load(ctx, sess, func(ctx context.Context) (model.Employee, error) {
		return w.api.GetEmployee(ctx, sess, id)
	}, LoadEmployeeFailedMessage)
}

// EditForm loads employee id into an update draft.
func (w *Controller) EditForm(ctx context.Context, sess Session, id int64) flow.View[*validation.Form] {
	return flow.Load(ctx, sess, func(ctx context.Context) (*validation.Form, error) {
		e, err := w.api.GetEmployee(ctx, sess, id)
		if err != nil {
			return nil, err
		}
		return validation.NewForm(validation.UpdateSchema, e.FormValues()), nil
	}, LoadEmployeeFailedMessage)
}

// Update validates the draft and replaces employee id with it.  On failure
// the draft stays on the form for another submit.
func (w *Controller) Update(ctx context.Context, sess Session, id int64, form *validation.Form) Result {
	release, ok := w.acquire(ctx, sess, opKey("update", id))
	if !ok {
		form.Message = BusyMessage
		return Result{}
	}
	defer release()

	form.Message = ""
	if !form.Validate() {
		return Result{}
	}
	e := model.EmployeeFromValues(form.Values)
	e.Password = ""
	if err := w.api.UpdateEmployee(ctx, sess, id, e); err != nil {
		if api.IsSessionError(err) {
			return toLogin()
		}
		form.Message = UpdateFailedMessage
		return Result{}
	}
	w.publish(ctx, queue.NewActivityEvent(queue.EventUpdated, e.Email, id, sess.Role()))
	return Result{Redirect: EmployeesPath, FlashKind: FlashSuccess, FlashText: UpdatedMessage}
}

// Delete removes employee id once confirm says yes.  A declined or missing
// confirmation issues no call.  Either way the list is fetched again by
// navigating back to it; nothing is removed optimistically.
func (w *Controller) Delete(ctx context.Context, sess Session, id int64, confirm func() bool) Result {
	if confirm == nil || !confirm() {
		return Result{Redirect: EmployeesPath}
	}
	release, ok := w.acquire(ctx, sess, opKey("delete", id))
	if !ok {
		return Result{Redirect: EmployeesPath, FlashKind: FlashError, FlashText: BusyMessage}
	}
	defer release()

	if err := w.api.DeleteEmployee(ctx, sess, id); err != nil {
		if api.IsSessionError(err) {
			return toLogin()
		}
		return Result{Redirect: EmployeesPath, FlashKind: FlashError, FlashText: DeleteFailedMessage}
	}
	w.publish(ctx, queue.NewActivityEvent(queue.EventDeleted, "", id, sess.Role()))
	return Result{Redirect: EmployeesPath, FlashKind: FlashSuccess, FlashText: DeletedMessage}
}
