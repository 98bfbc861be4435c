package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailTag accepts local@domain.tld with no whitespace and a single @.  The
// built-in email tag is stricter than the forms allow.
const emailTag = "portal_email"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// rules holds the validator tag run for each rule after the presence check.
var rules = map[Rule]string{
	Email:    emailTag,
	Password: "min=" + strconv.Itoa(MinPasswordLen),
	Phone:    "number,len=" + strconv.Itoa(PhoneDigits),
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Errors maps a field name to its message.  An empty map means valid.
type Errors map[string]string

// Validate checks every field of the schema independently and returns a
// fresh error map.  Fields missing from values are treated as empty.
func Validate(schema Schema, values map[string]string) Errors {
	errs := Errors{}
	for _, f := range schema {
		if msg := check(f, values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

func check(f Field, raw string) string {
	v := strings.TrimSpace(raw)
	if validate.Var(v, "required") != nil {
		return f.noun() + " is required."
	}
	switch f.Rule {
	case Password:
		// passwords are checked as typed, min counts characters
		if validate.Var(raw, rules[Password]) != nil {
			return "Password must be at least " + strconv.Itoa(MinPasswordLen) + " characters."
		}
	case Email:
		if validate.Var(v, rules[Email]) != nil {
			return "Invalid email format."
		}
	case Phone:
		if validate.Var(v, rules[Phone]) != nil {
			return "Phone must be " + strconv.Itoa(PhoneDigits) + " digits."
		}
	case PositiveNumber:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(n, 0) || validate.Var(n, "gt=0") != nil {
			return f.noun() + " must be a positive number."
		}
	}
	return ""
}
