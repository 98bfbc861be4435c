package validation

// Form is a draft bound to a schema: the working values of one register or
// update invocation together with the errors of the last validation pass.
type Form struct {
	Schema  Schema
	Values  map[string]string
	Errors  Errors
	Message string // form-level error, e.g. a server message
	Success string
}

// NewForm returns an empty draft for the schema, seeded with initial values
// when given.  Keys outside the schema are dropped.
func NewForm(schema Schema, initial map[string]string) *Form {
	f := &Form{Schema: schema, Values: make(map[string]string, len(schema)), Errors: Errors{}}
	for _, fld := range schema {
		f.Values[fld.Name] = initial[fld.Name]
	}
	return f
}

// Set changes one field and clears only that field's error entry.
func (f *Form) Set(name, value string) {
	if _, ok := f.Schema.Field(name); !ok {
		return
	}
	f.Values[name] = value
	delete(f.Errors, name)
}

// Validate recomputes the error map wholesale and reports whether the
// draft is valid.
func (f *Form) Validate() bool {
	f.Errors = Validate(f.Schema, f.Values)
	return len(f.Errors) == 0
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string { return f.Values[name] }

// Error returns the current error of a field, empty when none.
func (f *Form) Error(name string) string { return f.Errors[name] }
