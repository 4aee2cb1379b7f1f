package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"hrms.console/internal/core/model"
	"hrms.console/internal/hrms"
)

// employeeLister is the slice of the API client the employee store needs.
type employeeLister interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
}

// EmployeeStore holds the employee directory, always fetched unfiltered.
type EmployeeStore struct {
	Store[[]model.Employee]
	client employeeLister
}

func NewEmployeeStore(client employeeLister) *EmployeeStore {
	return &EmployeeStore{client: client}
}

// Refresh runs the fetch protocol against the employee listing.
func (s *EmployeeStore) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, s.client.ListEmployees)
}

// Prepend inserts a freshly created employee at the front of the list,
// keeping the existing order behind it. Most-recent-first is a product
// choice, not a server ordering guarantee.
func (s *EmployeeStore) Prepend(emp model.Employee) {
	s.mutate(func(employees []model.Employee) []model.Employee {
		return append([]model.Employee{emp}, employees...)
	})
}

// Remove drops the employee with the given server ID, leaving every other
// entry untouched.
func (s *EmployeeStore) Remove(id int64) {
	s.mutate(func(employees []model.Employee) []model.Employee {
		kept := employees[:0:0]
		for _, e := range employees {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		return kept
	})
}

type dashboardFetcher interface {
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// DashboardStore holds the aggregate stats, refetched on every view entry.
type DashboardStore struct {
	Store[*model.DashboardStats]
	client dashboardFetcher
}

func NewDashboardStore(client dashboardFetcher) *DashboardStore {
	return &DashboardStore{client: client}
}

// Refresh runs the fetch protocol against the dashboard endpoint.
func (s *DashboardStore) Refresh(ctx context.Context) error {
	return s.Fetch(ctx, s.client.DashboardStats)
}

type attendanceLister interface {
	ListAttendance(ctx context.Context, filter hrms.AttendanceFilter) ([]model.AttendanceRecord, error)
}

// AttendanceView is the attendance table's state: the record list plus the
// two independent filters, and a handle on the employee store because the
// view always refreshes the directory alongside the records.
type AttendanceView struct {
	Records   Store[[]model.AttendanceRecord]
	Employees *EmployeeStore

	client attendanceLister

	mu     sync.Mutex
	filter hrms.AttendanceFilter
}

func NewAttendanceView(client attendanceLister, employees *EmployeeStore) *AttendanceView {
	return &AttendanceView{Employees: employees, client: client}
}

// Filter returns the currently active filter.
func (v *AttendanceView) Filter() hrms.AttendanceFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// SetEmployeeFilter updates the employee filter and, when the value actually
// changed, re-runs the fetch cycle exactly once.
func (v *AttendanceView) SetEmployeeFilter(ctx context.Context, employeeID string) error {
	v.mu.Lock()
	if v.filter.EmployeeID == employeeID {
		v.mu.Unlock()
		return nil
	}
	v.filter.EmployeeID = employeeID
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// SetDateFilter updates the date filter and, when the value actually
// changed, re-runs the fetch cycle exactly once.
func (v *AttendanceView) SetDateFilter(ctx context.Context, date model.Date) error {
	v.mu.Lock()
	if v.filter.Date == date {
		v.mu.Unlock()
		return nil
	}
	v.filter.Date = date
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Apply replaces both filters with the given values and runs the fetch
// cycle once. Used on view entry, where the cycle always runs regardless
// of whether the filters changed.
func (v *AttendanceView) Apply(ctx context.Context, filter hrms.AttendanceFilter) error {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// ClearFilters drops both filters and returns to the unfiltered listing.
func (v *AttendanceView) ClearFilters(ctx context.Context) error {
	v.mu.Lock()
	if v.filter.IsZero() {
		v.mu.Unlock()
		return nil
	}
	v.filter = hrms.AttendanceFilter{}
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Refresh runs the attendance fetch cycle: the filtered record list and the
// unfiltered employee directory fan out concurrently with no ordering
// dependency, and a failure in either fails the whole cycle.
func (v *AttendanceView) Refresh(ctx context.Context) error {
	filter := v.Filter()

	// Plain group, not WithContext: a failure in one branch must not cancel
	// the other, both requests run to completion independently.
	var g errgroup.Group
	g.Go(func() error {
		return v.Records.Fetch(ctx, func(ctx context.Context) ([]model.AttendanceRecord, error) {
			return v.client.ListAttendance(ctx, filter)
		})
	})
	g.Go(func() error {
		return v.Employees.Refresh(ctx)
	})
	return g.Wait()
}
