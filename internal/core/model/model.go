package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AttendanceStatus defines the state recorded for an employee on a given day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// Departments is the fixed set of department names an employee can belong to.
var Departments = []string{
	"Engineering",
	"Product",
	"Design",
	"Marketing",
	"Sales",
	"Human Resources",
	"Finance",
	"Operations",
	"Legal",
	"Customer Support",
}

// ValidDepartment reports whether name is one of the known departments.
func ValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// dateLayout is the wire format for calendar dates, matching the API.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time component. The zero value is "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Today returns the current calendar date in the local timezone.
func Today() Date {
	now := time.Now()
	return Date{Year: now.Year(), Month: now.Month(), Day: now.Day()}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// IsZero reports whether d is the empty date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Day > other.Day
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Employee is a registered team member. The numeric ID is server-assigned,
// EmployeeID is the user-assigned business key.
type Employee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttendanceRecord is one employee's attendance on one date. FullName and
// Department are read-only projections the server may attach for display;
// they are never authoritative for identity.
type AttendanceRecord struct {
	ID         int64            `json:"id"`
	EmployeeID string           `json:"employee_id"`
	Date       Date             `json:"date"`
	Status     AttendanceStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	FullName   string           `json:"full_name,omitempty"`
	Department string           `json:"department,omitempty"`
}

// AttendanceSummary aggregates one employee's attendance history.
type AttendanceSummary struct {
	EmployeeID  string `json:"employee_id"`
	TotalDays   int    `json:"total_days"`
	PresentDays int    `json:"present_days"`
	AbsentDays  int    `json:"absent_days"`
}

// Rate returns the attendance rate as a whole percentage. The rate is
// undefined when no days have been recorded, signalled by ok == false.
func (s AttendanceSummary) Rate() (rate int, ok bool) {
	if s.TotalDays <= 0 {
		return 0, false
	}
	return int(math.Round(float64(s.PresentDays) / float64(s.TotalDays) * 100)), true
}

// DepartmentStat is one bar of the dashboard's department breakdown.
type DepartmentStat struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// DashboardStats is the aggregate view the dashboard renders. It is derived
// server-side and refetched on every dashboard visit.
type DashboardStats struct {
	TotalEmployees         int              `json:"total_employees"`
	TotalAttendanceRecords int              `json:"total_attendance_records"`
	PresentToday           int              `json:"present_today"`
	AbsentToday            int              `json:"absent_today"`
	DepartmentStats        []DepartmentStat `json:"department_stats"`
}
