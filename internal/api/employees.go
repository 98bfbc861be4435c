package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/iliyamo/employee-portal/internal/model"
)

type employeeEnvelope struct {
	Employees *model.Employee `json:"employees"`
}

type employeeListEnvelope struct {
	EmployeesList []model.Employee `json:"employeesList"`
}

// GetProfile returns the signed-in user's own record.
func (c *Client) GetProfile(ctx context.Context, creds Credentials) (model.Employee, error) {
	var env employeeEnvelope
	if err := c.authed(ctx, creds, http.MethodGet, "/adminEmployee/get-profile", nil, &env); err != nil {
		return model.Employee{}, err
	}
	if env.Employees == nil {
		return model.Employee{}, errors.Wrap(ErrTransport, "profile response without employees")
	}
	return *env.Employees, nil
}

// ListEmployees returns every employee record.
func (c *Client) ListEmployees(ctx context.Context, creds Credentials) ([]model.Employee, error) {
	var env employeeListEnvelope
	if err := c.authed(ctx, creds, http.MethodGet, "/admin/get-all-employees", nil, &env); err != nil {
		return nil, err
	}
	if env.EmployeesList == nil {
		return []model.Employee{}, nil
	}
	return env.EmployeesList, nil
}

// GetEmployee returns one employee record.
func (c *Client) GetEmployee(ctx context.Context, creds Credentials, id int64) (model.Employee, error) {
	var env employeeEnvelope
	if err := c.authed(ctx, creds, http.MethodGet, "/admin/get-employees/"+strconv.FormatInt(id, 10), nil, &env); err != nil {
		return model.Employee{}, err
	}
	if env.Employees == nil {
		return model.Employee{}, errors.Wrapf(ErrTransport, "employee %d response without employees", id)
	}
	return *env.Employees, nil
}

// UpdateEmployee replaces the full record of employee id in a single PUT.
func (c *Client) UpdateEmployee(ctx context.Context, creds Credentials, id int64, e model.Employee) error {
	e.ID = id
	e.Password = ""
	return c.authed(ctx, creds, http.MethodPut, "/admin/update/"+strconv.FormatInt(id, 10), e, nil)
}

// DeleteEmployee removes employee id.
func (c *Client) DeleteEmployee(ctx context.Context, creds Credentials, id int64) error {
	return c.authed(ctx, creds, http.MethodDelete, "/admin/delete/"+strconv.FormatInt(id, 10), nil, nil)
}
