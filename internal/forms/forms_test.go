package forms

import (
	"testing"

	"hrms.console/internal/core/model"
)

func validEmployeeForm() EmployeeForm {
	return EmployeeForm{
		EmployeeID: "EMP-001",
		FullName:   "Jane Doe",
		Email:      "jane@company.com",
		Department: "Engineering",
	}
}

func TestEmployeeFormValid(t *testing.T) {
	errs := validEmployeeForm().Validate()
	if !errs.Valid() {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestEmployeeFormFieldRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*EmployeeForm)
		field   string
		message string
	}{
		{"blank id", func(f *EmployeeForm) { f.EmployeeID = "" }, "employee_id", "Employee ID is required"},
		{"whitespace id", func(f *EmployeeForm) { f.EmployeeID = "   " }, "employee_id", "Employee ID is required"},
		{"blank name", func(f *EmployeeForm) { f.FullName = "" }, "full_name", "Full name is required"},
		{"blank email", func(f *EmployeeForm) { f.Email = "" }, "email", "Email is required"},
		{"malformed email", func(f *EmployeeForm) { f.Email = "jane@company" }, "email", "Enter a valid email address"},
		{"no at sign", func(f *EmployeeForm) { f.Email = "jane.company.com" }, "email", "Enter a valid email address"},
		{"blank department", func(f *EmployeeForm) { f.Department = "" }, "department", "Department is required"},
		{"unknown department", func(f *EmployeeForm) { f.Department = "Astrology" }, "department", "Department is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validEmployeeForm()
			tc.mutate(&f)
			errs := f.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if got := errs[tc.field]; got != tc.message {
				t.Fatalf("expected %q on %s, got %v", tc.message, tc.field, errs)
			}
		})
	}
}

func TestAttendanceFormDefaults(t *testing.T) {
	f := NewAttendanceForm()
	if f.Status != model.StatusPresent {
		t.Fatalf("expected default status Present, got %s", f.Status)
	}
	if f.Date != model.Today() {
		t.Fatalf("expected default date today, got %v", f.Date)
	}
}

func TestAttendanceFormValid(t *testing.T) {
	f := NewAttendanceForm()
	f.EmployeeID = "EMP-001"
	errs := f.Validate([]string{"EMP-001", "EMP-002"})
	if !errs.Valid() {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestAttendanceFormRequiresEmployee(t *testing.T) {
	f := NewAttendanceForm()
	errs := f.Validate([]string{"EMP-001"})
	if errs["employee_id"] != "Please select an employee" {
		t.Fatalf("expected employee selection error, got %v", errs)
	}
}

func TestAttendanceFormRejectsUnknownEmployee(t *testing.T) {
	f := NewAttendanceForm()
	f.EmployeeID = "EMP-999"
	errs := f.Validate([]string{"EMP-001"})
	if errs["employee_id"] != "Please select an employee" {
		t.Fatalf("expected employee selection error, got %v", errs)
	}
}

func TestAttendanceFormRequiresDate(t *testing.T) {
	f := NewAttendanceForm()
	f.EmployeeID = "EMP-001"
	f.Date = model.Date{}
	errs := f.Validate([]string{"EMP-001"})
	if errs["date"] != "Date is required" {
		t.Fatalf("expected date error, got %v", errs)
	}
}

func TestAttendanceFormRejectsFutureDate(t *testing.T) {
	f := NewAttendanceForm()
	f.EmployeeID = "EMP-001"
	f.Date = model.Date{Year: f.Date.Year + 1, Month: f.Date.Month, Day: f.Date.Day}
	errs := f.Validate([]string{"EMP-001"})
	if errs["date"] != "Date cannot be in the future" {
		t.Fatalf("expected future date error, got %v", errs)
	}
}

func TestAttendanceFormRejectsBadStatus(t *testing.T) {
	f := NewAttendanceForm()
	f.EmployeeID = "EMP-001"
	f.Status = model.AttendanceStatus("Late")
	errs := f.Validate([]string{"EMP-001"})
	if errs["status"] != "Status must be Present or Absent" {
		t.Fatalf("expected status error, got %v", errs)
	}
}

func TestValidateReportsEveryFailingField(t *testing.T) {
	f := validEmployeeForm()
	f.EmployeeID = ""
	f.Email = "nope"
	errs := f.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	if _, ok := errs["employee_id"]; !ok {
		t.Fatalf("expected employee_id error")
	}
	if _, ok := errs["email"]; !ok {
		t.Fatalf("expected email error")
	}
}
