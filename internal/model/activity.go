package model

import "time"

// Activity is one row of the employee_activity table.  It mirrors the
// events published on the activity queue so the employee dashboard can
// show what recently happened to an account.
type Activity struct {
	ID         string    // employee_activity.id (uuid)
	Type       string    // employee_activity.type, e.g. employee.updated
	Email      string    // employee_activity.email of the affected employee
	EmployeeID int64     // employee_activity.employee_id, 0 when unknown
	Actor      string    // employee_activity.actor role that triggered it
	OccurredAt time.Time // employee_activity.occurred_at
}
