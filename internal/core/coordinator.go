package core

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"hrms.console/internal/core/model"
	"hrms.console/internal/forms"
	"hrms.console/internal/hrms"
	"hrms.console/internal/store"
)

// Mutation identifies one kind of write operation. At most one call per
// kind may be in flight at a time; the coordinator rejects overlap instead
// of queueing.
type Mutation string

const (
	MutationCreateEmployee Mutation = "create_employee"
	MutationDeleteEmployee Mutation = "delete_employee"
	MutationMarkAttendance Mutation = "mark_attendance"
)

// ErrMutationInFlight is returned when a mutation of the same kind has not
// finished yet. The UI disables the triggering affordance on this signal.
var ErrMutationInFlight = errors.New("a request of this kind is already in flight")

// ErrNotConfirmed is returned when a delete is attempted without the
// explicit confirmation step.
var ErrNotConfirmed = errors.New("deletion requires explicit confirmation")

// Coordinator orchestrates the write path: validate the draft, call the
// API, then reconcile the local stores, or leave them untouched and hand
// back the normalized error when the call fails.
type Coordinator struct {
	client     hrms.Client
	employees  *store.EmployeeStore
	attendance *store.AttendanceView
	summaries  *store.SummaryCache

	mu       sync.Mutex
	inFlight map[Mutation]bool
}

// NewCoordinator wires the coordinator up with the API client and the
// stores it reconciles.
func NewCoordinator(client hrms.Client, employees *store.EmployeeStore, attendance *store.AttendanceView, summaries *store.SummaryCache) *Coordinator {
	return &Coordinator{
		client:     client,
		employees:  employees,
		attendance: attendance,
		summaries:  summaries,
		inFlight:   make(map[Mutation]bool),
	}
}

// InFlight reports whether a mutation of the given kind is outstanding.
func (c *Coordinator) InFlight(kind Mutation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[kind]
}

func (c *Coordinator) begin(kind Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[kind] {
		return ErrMutationInFlight
	}
	c.inFlight[kind] = true
	return nil
}

func (c *Coordinator) end(kind Mutation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight[kind] = false
}

// CreateEmployee validates the draft and registers the employee. Field
// errors abort before any network call. On success the new record is
// prepended to the employee list.
func (c *Coordinator) CreateEmployee(ctx context.Context, form forms.EmployeeForm) (*model.Employee, forms.FieldErrors, error) {
	if fieldErrs := form.Validate(); !fieldErrs.Valid() {
		return nil, fieldErrs, nil
	}

	if err := c.begin(MutationCreateEmployee); err != nil {
		return nil, nil, err
	}
	defer c.end(MutationCreateEmployee)

	trimmed := form.Trimmed()
	emp, err := c.client.CreateEmployee(ctx, hrms.CreateEmployeeRequest{
		EmployeeID: trimmed.EmployeeID,
		FullName:   trimmed.FullName,
		Email:      trimmed.Email,
		Department: trimmed.Department,
	})
	if err != nil {
		return nil, nil, err
	}

	c.employees.Prepend(*emp)
	log.Ctx(ctx).Info().Str("employee_id", emp.EmployeeID).Msg("employee created")
	return emp, nil, nil
}

// DeleteEmployee removes an employee after the caller has gathered an
// explicit confirmation. The server cascades the delete to that employee's
// attendance; the local attendance store is left alone and a later fetch
// reflects the true state.
func (c *Coordinator) DeleteEmployee(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := c.begin(MutationDeleteEmployee); err != nil {
		return err
	}
	defer c.end(MutationDeleteEmployee)

	if err := c.client.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	c.employees.Remove(id)
	log.Ctx(ctx).Info().Int64("id", id).Msg("employee deleted")
	return nil
}

// MarkAttendance validates the draft and records the attendance. On success
// the employee's summary entry is evicted and the attendance fetch cycle
// re-runs so the table reflects the new record and any server-side
// overwrite of the same (employee, date) pair.
func (c *Coordinator) MarkAttendance(ctx context.Context, form forms.AttendanceForm) (forms.FieldErrors, error) {
	selectable := c.selectableEmployeeIDs()
	if fieldErrs := form.Validate(selectable); !fieldErrs.Valid() {
		return fieldErrs, nil
	}

	if err := c.begin(MutationMarkAttendance); err != nil {
		return nil, err
	}
	defer c.end(MutationMarkAttendance)

	_, err := c.client.MarkAttendance(ctx, hrms.MarkAttendanceRequest{
		EmployeeID: form.EmployeeID,
		Date:       form.Date,
		Status:     form.Status,
	})
	if err != nil {
		return nil, err
	}

	c.summaries.Evict(form.EmployeeID)
	log.Ctx(ctx).Info().
		Str("employee_id", form.EmployeeID).
		Str("date", form.Date.String()).
		Str("status", string(form.Status)).
		Msg("attendance recorded")

	if err := c.attendance.Refresh(ctx); err != nil {
		// The write itself succeeded; the refresh failure shows up on the
		// attendance store like any other fetch failure.
		log.Ctx(ctx).Warn().Err(err).Msg("attendance refetch after write failed")
	}
	return nil, nil
}

func (c *Coordinator) selectableEmployeeIDs() []string {
	employees := c.employees.Snapshot().Data
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.EmployeeID)
	}
	return ids
}
