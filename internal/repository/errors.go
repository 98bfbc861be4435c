// Package repository persists the portal's own data: the activity log
// behind the employee dashboard.  Employee records themselves belong to
// the backend and are never stored here.
package repository

import "errors"

// ErrUnavailable is returned when no database is configured.  Readers
// treat it as "nothing recorded yet".
var ErrUnavailable = errors.New("activity store unavailable")

// ErrConflict is returned when a row with the same id already exists, for
// example when the broker redelivers an event that was already recorded.
var ErrConflict = errors.New("conflict")
