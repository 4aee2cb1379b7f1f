// Package forms validates draft records before they are allowed anywhere
// near the network. Validation is synchronous and pure: a draft goes in, a
// map of field name to error message comes out, an empty map means valid.
package forms

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"hrms.console/internal/core/model"
)

// basicEmailPattern is the minimal local@domain.tld shape. Deliberately
// looser than full RFC address validation; the server has the final word.
var basicEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields under their wire names so error maps line up with
	// the JSON payloads and the form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return basicEmailPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return model.ValidDepartment(fl.Field().String())
	})
	// The required tag does not run on non-pointer struct fields, so date
	// presence gets its own rule.
	v.RegisterValidation("date_required", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(model.Date)
		return ok && !d.IsZero()
	})
	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(model.Date)
		if !ok {
			return false
		}
		return !d.After(model.Today())
	})

	return v
}

// FieldErrors maps a field's wire name to its validation message.
type FieldErrors map[string]string

// Valid reports whether the draft passed every rule.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// messages maps field name + failing tag to the message shown next to the
// input. Unlisted combinations fall back to the field's first message.
var messages = map[string]map[string]string{
	"employee_id": {
		"notblank": "Employee ID is required",
		"required": "Please select an employee",
	},
	"full_name": {
		"notblank": "Full name is required",
	},
	"email": {
		"notblank":    "Email is required",
		"basic_email": "Enter a valid email address",
	},
	"department": {
		"required":   "Department is required",
		"department": "Department is required",
	},
	"date": {
		"date_required": "Date is required",
		"notfuture":     "Date cannot be in the future",
	},
	"status": {
		"oneof": "Status must be Present or Absent",
	},
}

func collect(err error) FieldErrors {
	errs := FieldErrors{}
	if err == nil {
		return errs
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs
	}
	for _, fieldErr := range ve {
		field := fieldErr.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if m, ok := messages[field][fieldErr.Tag()]; ok {
			errs[field] = m
			continue
		}
		errs[field] = "Invalid value"
	}
	return errs
}

// EmployeeForm is the draft for the add-employee dialog.
type EmployeeForm struct {
	EmployeeID string `json:"employee_id" validate:"notblank"`
	FullName   string `json:"full_name" validate:"notblank"`
	Email      string `json:"email" validate:"notblank,basic_email"`
	Department string `json:"department" validate:"required,department"`
}

// Validate checks every rule and returns one message per failing field.
func (f EmployeeForm) Validate() FieldErrors {
	return collect(validate.Struct(f))
}

// Trimmed returns the draft with surrounding whitespace removed from the
// text fields, ready to be sent to the API.
func (f EmployeeForm) Trimmed() EmployeeForm {
	f.EmployeeID = strings.TrimSpace(f.EmployeeID)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// AttendanceForm is the draft for the mark-attendance dialog. Status always
// has a default so it cannot be empty.
type AttendanceForm struct {
	EmployeeID string                 `json:"employee_id" validate:"required"`
	Date       model.Date             `json:"date" validate:"date_required,notfuture"`
	Status     model.AttendanceStatus `json:"status" validate:"oneof=Present Absent"`
}

// NewAttendanceForm returns a draft preset to today's date and Present.
func NewAttendanceForm() AttendanceForm {
	return AttendanceForm{
		Date:   model.Today(),
		Status: model.StatusPresent,
	}
}

// Validate checks the structural rules, then that the selected employee is
// one the caller actually offers. selectable is the set of business keys in
// the employee picker; a nil slice skips the membership check.
func (f AttendanceForm) Validate(selectable []string) FieldErrors {
	errs := collect(validate.Struct(f))
	if _, taken := errs["employee_id"]; !taken && selectable != nil {
		found := false
		for _, id := range selectable {
			if id == f.EmployeeID {
				found = true
				break
			}
		}
		if !found {
			errs["employee_id"] = "Please select an employee"
		}
	}
	return errs
}
