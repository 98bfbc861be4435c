package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/employee-portal/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const activitySchema = `CREATE TABLE IF NOT EXISTS employee_activity (
	id          CHAR(36)     NOT NULL PRIMARY KEY,
	type        VARCHAR(64)  NOT NULL,
	email       VARCHAR(255) NOT NULL DEFAULT '',
	employee_id BIGINT       NOT NULL DEFAULT 0,
	actor       VARCHAR(32)  NOT NULL DEFAULT '',
	occurred_at DATETIME     NOT NULL,
	KEY idx_activity_email (email, occurred_at),
	KEY idx_activity_employee (employee_id, occurred_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// ActivityRepo reads and writes employee_activity.  A nil DB makes every
// call return ErrUnavailable.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// EnsureSchema creates the table when missing.
func (r *ActivityRepo) EnsureSchema(ctx context.Context) error {
	if r.DB == nil {
		return ErrUnavailable
	}
	_, err := r.DB.ExecContext(ctx, activitySchema)
	return err
}

// Insert records one activity.  A duplicate id yields ErrConflict.
func (r *ActivityRepo) Insert(ctx context.Context, a model.Activity) error {
	if r.DB == nil {
		return ErrUnavailable
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO employee_activity (id, type, email, employee_id, actor, occurred_at) VALUES (?,?,?,?,?,?)",
		a.ID, a.Type, a.Email, a.EmployeeID, a.Actor, a.OccurredAt.UTC())
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrConflict
	}
	return err
}

// ListForEmployee returns the latest activities recorded against the
// employee's email or id, newest first.
func (r *ActivityRepo) ListForEmployee(ctx context.Context, email string, employeeID int64, limit int) ([]model.Activity, error) {
	if r.DB == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, type, email, employee_id, actor, occurred_at
		   FROM employee_activity
		  WHERE (email <> '' AND email = ?) OR (employee_id <> 0 AND employee_id = ?)
		  ORDER BY occurred_at DESC
		  LIMIT ?`,
		email, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var (
			a  model.Activity
			at time.Time
		)
		if err := rows.Scan(&a.ID, &a.Type, &a.Email, &a.EmployeeID, &a.Actor, &at); err != nil {
			return nil, err
		}
		a.OccurredAt = at.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
