package store

import (
	"context"
	"sync"
	"testing"

	"hrms.console/internal/core/model"
	"hrms.console/internal/hrms"
)

type fakeDirectory struct {
	mu        sync.Mutex
	employees []model.Employee
	err       error
	calls     int
}

func (f *fakeDirectory) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.employees, nil
}

type fakeAttendance struct {
	mu      sync.Mutex
	records []model.AttendanceRecord
	err     error
	filters []hrms.AttendanceFilter
}

func (f *fakeAttendance) ListAttendance(ctx context.Context, filter hrms.AttendanceFilter) ([]model.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func emp(id int64, businessKey string) model.Employee {
	return model.Employee{ID: id, EmployeeID: businessKey, FullName: "Employee " + businessKey}
}

func TestFetchSuccessReplacesData(t *testing.T) {
	dir := &fakeDirectory{employees: []model.Employee{emp(1, "EMP-001")}}
	s := NewEmployeeStore(dir)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap := s.Snapshot()
	if snap.Loading {
		t.Fatalf("expected loading false after fetch")
	}
	if snap.Err != nil {
		t.Fatalf("expected no error, got %v", snap.Err)
	}
	if len(snap.Data) != 1 || snap.Data[0].ID != 1 {
		t.Fatalf("unexpected data %+v", snap.Data)
	}
}

func TestFetchFailureKeepsStaleData(t *testing.T) {
	dir := &fakeDirectory{employees: []model.Employee{emp(1, "EMP-001")}}
	s := NewEmployeeStore(dir)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	dir.err = &hrms.APIError{Message: "backend is down"}
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}

	snap := s.Snapshot()
	if snap.Loading {
		t.Fatalf("expected loading false after failed fetch")
	}
	if snap.Err == nil || snap.Err.Message != "backend is down" {
		t.Fatalf("expected normalized error, got %v", snap.Err)
	}
	if len(snap.Data) != 1 {
		t.Fatalf("expected previously loaded data kept, got %+v", snap.Data)
	}
}

func TestStaleCompletionDiscarded(t *testing.T) {
	var s Store[[]model.Employee]

	first := s.begin()
	second := s.begin()

	// The newer fetch lands first, then the older one straggles in.
	s.complete(second, []model.Employee{emp(2, "EMP-002")}, nil)
	s.complete(first, []model.Employee{emp(1, "EMP-001")}, nil)

	snap := s.Snapshot()
	if len(snap.Data) != 1 || snap.Data[0].ID != 2 {
		t.Fatalf("expected the latest fetch to win, got %+v", snap.Data)
	}
	if snap.Loading {
		t.Fatalf("expected loading false after latest completion")
	}
}

func TestPrependKeepsOrder(t *testing.T) {
	dir := &fakeDirectory{employees: []model.Employee{emp(1, "EMP-001"), emp(2, "EMP-002")}}
	s := NewEmployeeStore(dir)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	s.Prepend(model.Employee{ID: 5, EmployeeID: "EMP-005", FullName: "Jane Doe"})

	snap := s.Snapshot()
	if len(snap.Data) != 3 {
		t.Fatalf("expected three employees, got %d", len(snap.Data))
	}
	if snap.Data[0].ID != 5 {
		t.Fatalf("expected new employee at the front, got %+v", snap.Data[0])
	}
	if snap.Data[1].ID != 1 || snap.Data[2].ID != 2 {
		t.Fatalf("expected prior order preserved, got %+v", snap.Data)
	}
}

func TestRemoveDropsOnlyMatchingID(t *testing.T) {
	dir := &fakeDirectory{employees: []model.Employee{emp(1, "EMP-001"), emp(5, "EMP-005"), emp(9, "EMP-009")}}
	s := NewEmployeeStore(dir)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	s.Remove(5)

	snap := s.Snapshot()
	if len(snap.Data) != 2 {
		t.Fatalf("expected two employees, got %+v", snap.Data)
	}
	if snap.Data[0].ID != 1 || snap.Data[1].ID != 9 {
		t.Fatalf("expected other entries unaltered, got %+v", snap.Data)
	}
}

func TestAttendanceRefreshFansOut(t *testing.T) {
	dir := &fakeDirectory{employees: []model.Employee{emp(1, "EMP-001")}}
	att := &fakeAttendance{records: []model.AttendanceRecord{{ID: 1, EmployeeID: "EMP-001"}}}
	v := NewAttendanceView(att, NewEmployeeStore(dir))

	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if dir.calls != 1 {
		t.Fatalf("expected employee directory fetched alongside attendance, got %d calls", dir.calls)
	}
	if len(v.Records.Snapshot().Data) != 1 {
		t.Fatalf("expected attendance records loaded")
	}
	if len(v.Employees.Snapshot().Data) != 1 {
		t.Fatalf("expected employees loaded")
	}
}

func TestAttendanceFilterChangesTriggerOneFetch(t *testing.T) {
	dir := &fakeDirectory{}
	att := &fakeAttendance{}
	v := NewAttendanceView(att, NewEmployeeStore(dir))

	if err := v.SetEmployeeFilter(context.Background(), "EMP-002"); err != nil {
		t.Fatalf("set employee filter: %v", err)
	}
	if len(att.filters) != 1 || att.filters[0].EmployeeID != "EMP-002" {
		t.Fatalf("expected one filtered fetch, got %+v", att.filters)
	}

	// Setting the same value again is not a change and must not refetch.
	if err := v.SetEmployeeFilter(context.Background(), "EMP-002"); err != nil {
		t.Fatalf("set employee filter: %v", err)
	}
	if len(att.filters) != 1 {
		t.Fatalf("expected no refetch for unchanged filter, got %+v", att.filters)
	}

	date, _ := model.ParseDate("2024-03-01")
	if err := v.SetDateFilter(context.Background(), date); err != nil {
		t.Fatalf("set date filter: %v", err)
	}
	last := att.filters[len(att.filters)-1]
	if last.EmployeeID != "EMP-002" || last.Date != date {
		t.Fatalf("expected both filters carried together, got %+v", last)
	}

	if err := v.ClearFilters(context.Background()); err != nil {
		t.Fatalf("clear filters: %v", err)
	}
	last = att.filters[len(att.filters)-1]
	if !last.IsZero() {
		t.Fatalf("expected unfiltered fetch after clearing, got %+v", last)
	}
}

func TestAttendanceRefreshFailsWhenEitherBranchFails(t *testing.T) {
	dir := &fakeDirectory{err: &hrms.APIError{Message: "employees down"}}
	att := &fakeAttendance{}
	v := NewAttendanceView(att, NewEmployeeStore(dir))

	if err := v.Refresh(context.Background()); err == nil {
		t.Fatalf("expected cycle error when the employee fetch fails")
	}
	// The attendance branch still ran to completion.
	if len(att.filters) != 1 {
		t.Fatalf("expected attendance fetch to complete independently, got %+v", att.filters)
	}
}
