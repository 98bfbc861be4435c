// Package validation checks form drafts against a field schema and returns
// a map of field name to error message.  Validation is pure: it performs
// no I/O and yields the same map for the same draft.
package validation

// Rule selects the check applied to a field.
type Rule int

const (
	Required Rule = iota // non-empty after trim
	Email                // required and local@domain.tld
	Password             // required and at least MinPasswordLen characters
	Phone                // required and exactly PhoneDigits digits
	PositiveNumber       // required, numeric and > 0
)

// MinPasswordLen is the shortest password accepted on registration.
const MinPasswordLen = 6

// PhoneDigits is the exact number of digits a phone number must have.
const PhoneDigits = 10

// Field describes one input of a form.  Type is the HTML input type used
// when rendering; Options lists the choices for a select.  Noun names the
// field in error messages when it differs from Label.
type Field struct {
	Name    string
	Label   string
	Noun    string
	Type    string
	Rule    Rule
	Options []string
}

func (f Field) noun() string {
	if f.Noun != "" {
		return f.Noun
	}
	return f.Label
}

// Schema is an ordered list of fields.
type Schema []Field

// Field returns the field with the given name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var statusOptions = []string{"Active", "Inactive"}

// RegisterSchema is the registration form, including the password.
var RegisterSchema = Schema{
	{Name: "name", Label: "Full Name", Noun: "Name", Type: "text", Rule: Required},
	{Name: "email", Label: "Email", Type: "email", Rule: Email},
	{Name: "password", Label: "Password", Type: "password", Rule: Password},
	{Name: "address", Label: "Address", Type: "text", Rule: Required},
	{Name: "department", Label: "Department", Type: "text", Rule: Required},
	{Name: "role", Label: "Role", Type: "text", Rule: Required},
	{Name: "phone", Label: "Phone", Type: "text", Rule: Phone},
	{Name: "designation", Label: "Designation", Type: "text", Rule: Required},
	{Name: "jobTitle", Label: "Job Title", Noun: "Job title", Type: "text", Rule: Required},
	{Name: "salary", Label: "Salary", Type: "number", Rule: PositiveNumber},
	{Name: "status", Label: "Status", Type: "select", Rule: Required, Options: statusOptions},
}

// UpdateSchema is the employee update form.  It carries every field of the
// record so the update can be sent as one full PUT.
var UpdateSchema = Schema{
	{Name: "name", Label: "Name", Type: "text", Rule: Required},
	{Name: "email", Label: "Email", Type: "email", Rule: Email},
	{Name: "phone", Label: "Phone", Type: "text", Rule: Phone},
	{Name: "address", Label: "Address", Type: "text", Rule: Required},
	{Name: "department", Label: "Department", Type: "text", Rule: Required},
	{Name: "role", Label: "Role", Type: "text", Rule: Required},
	{Name: "designation", Label: "Designation", Type: "text", Rule: Required},
	{Name: "jobTitle", Label: "Job Title", Noun: "Job title", Type: "text", Rule: Required},
	{Name: "salary", Label: "Salary", Type: "text", Rule: PositiveNumber},
	{Name: "status", Label: "Status", Type: "select", Rule: Required, Options: statusOptions},
}

// LoginSchema only checks presence; credentials are verified by the backend.
var LoginSchema = Schema{
	{Name: "email", Label: "Email", Type: "email", Rule: Required},
	{Name: "password", Label: "Password", Type: "password", Rule: Required},
}
