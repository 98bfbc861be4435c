package model

import (
	"strconv"
	"strings"
)

// Roles understood by the employee backend.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Employee statuses offered by the forms.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Employee is the client-side copy of an employee record owned by the
// backend.  The JSON tags follow the backend's camelCase payloads.
//
// Fields:
//  ID          – server assigned identifier.
//  Email       – unique across the system.
//  Phone       – digits only.
//  Status      – Active or Inactive.
//  Salary      – strictly positive.
//  Password    – only sent on registration, never returned.
type Employee struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password,omitempty"`
	Role        string  `json:"role"`
	JobTitle    string  `json:"jobTitle"`
	Department  string  `json:"department"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Designation string  `json:"designation"`
	Status      string  `json:"status"`
	Salary      float64 `json:"salary"`
}

// FormValues flattens the record into form field values keyed by the
// JSON field names.  The password is never copied into a form.
func (e Employee) FormValues() map[string]string {
	salary := ""
	if e.Salary != 0 {
		salary = strconv.FormatFloat(e.Salary, 'f', -1, 64)
	}
	return map[string]string{
		"name":        e.Name,
		"email":       e.Email,
		"role":        e.Role,
		"jobTitle":    e.JobTitle,
		"department":  e.Department,
		"address":     e.Address,
		"phone":       e.Phone,
		"designation": e.Designation,
		"status":      e.Status,
		"salary":      salary,
	}
}

// EmployeeFromValues builds a record from validated form values.  Values
// are trimmed; salary is expected to be numeric at this point and falls
// back to zero otherwise.
func EmployeeFromValues(v map[string]string) Employee {
	get := func(k string) string { return strings.TrimSpace(v[k]) }
	salary, _ := strconv.ParseFloat(get("salary"), 64)
	return Employee{
		Name:        get("name"),
		Email:       get("email"),
		Password:    v["password"],
		Role:        get("role"),
		JobTitle:    get("jobTitle"),
		Department:  get("department"),
		Address:     get("address"),
		Phone:       get("phone"),
		Designation: get("designation"),
		Status:      get("status"),
		Salary:      salary,
	}
}
