// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// ActivityQueueName is the durable queue carrying portal activity.
const ActivityQueueName = "employee.activity"

// Activity event types.
const (
    EventLogin      = "session.login"
    EventLogout     = "session.logout"
    EventRegistered = "employee.registered"
    EventUpdated    = "employee.updated"
    EventDeleted    = "employee.deleted"
)

// ActivityEvent is published after a successful portal action.  It carries
// enough for the consumer to log the action and record it against the
// affected employee without calling the backend again.
type ActivityEvent struct {
    ID         string `json:"id"`
    Type       string `json:"type"`
    Email      string `json:"email,omitempty"`
    EmployeeID int64  `json:"employee_id,omitempty"`
    Actor      string `json:"actor,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewActivityEvent stamps an event with a fresh id and the current UTC time.
func NewActivityEvent(typ, email string, employeeID int64, actor string) ActivityEvent {
    return ActivityEvent{
        ID:         uuid.NewString(),
        Type:       typ,
        Email:      email,
        EmployeeID: employeeID,
        Actor:      actor,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
