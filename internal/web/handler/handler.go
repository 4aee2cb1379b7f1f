package handler

import (
	"embed"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"hrms.console/internal/core"
	"hrms.console/internal/core/model"
	"hrms.console/internal/forms"
	"hrms.console/internal/hrms"
	"hrms.console/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Console renders the three views and translates form posts into
// coordinator calls. All state lives in the stores; the handlers only
// snapshot and render.
type Console struct {
	Client      hrms.Client
	Coordinator *core.Coordinator
	Employees   *store.EmployeeStore
	Attendance  *store.AttendanceView
	Dashboard   *store.DashboardStore
	Summaries   *store.SummaryCache

	templates *template.Template
}

// NewConsole parses the embedded templates and returns a ready handler set.
func NewConsole(client hrms.Client, coord *core.Coordinator, employees *store.EmployeeStore, attendance *store.AttendanceView, dashboard *store.DashboardStore, summaries *store.SummaryCache) (*Console, error) {
	tmpl, err := template.New("console").Funcs(template.FuncMap{
		"percent": func(count, total int) int {
			if total <= 0 {
				return 0
			}
			return int(math.Round(float64(count) / float64(total) * 100))
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Console{
		Client:      client,
		Coordinator: coord,
		Employees:   employees,
		Attendance:  attendance,
		Dashboard:   dashboard,
		Summaries:   summaries,
		templates:   tmpl,
	}, nil
}

func (c *Console) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// flash carries the transient notification strings passed between a
// redirect and the next render.
type flash struct {
	Notice string
	Alert  string
}

func flashFrom(r *http.Request) flash {
	return flash{
		Notice: r.URL.Query().Get("notice"),
		Alert:  r.URL.Query().Get("alert"),
	}
}

func redirectWith(w http.ResponseWriter, r *http.Request, path string, f flash) {
	q := url.Values{}
	if f.Notice != "" {
		q.Set("notice", f.Notice)
	}
	if f.Alert != "" {
		q.Set("alert", f.Alert)
	}
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

type dashboardPage struct {
	flash
	Stats store.Snapshot[*model.DashboardStats]
}

// ShowDashboard refetches the aggregate stats and renders them.
func (c *Console) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	if err := c.Dashboard.Refresh(r.Context()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("dashboard fetch failed")
	}
	c.render(w, r, "dashboard.html", dashboardPage{
		flash: flashFrom(r),
		Stats: c.Dashboard.Snapshot(),
	})
}

type employeesPage struct {
	flash
	Employees store.Snapshot[[]model.Employee]
	Filtered  []model.Employee
	Search    string

	Departments []string
	Form        forms.EmployeeForm
	FormErrors  forms.FieldErrors
}

// ShowEmployees refetches the directory and renders it, applying the
// local search filter across name, business key, department and email.
func (c *Console) ShowEmployees(w http.ResponseWriter, r *http.Request) {
	if err := c.Employees.Refresh(r.Context()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("employee fetch failed")
	}
	snap := c.Employees.Snapshot()
	search := r.URL.Query().Get("q")

	c.render(w, r, "employees.html", employeesPage{
		flash:       flashFrom(r),
		Employees:   snap,
		Filtered:    searchEmployees(snap.Data, search),
		Search:      search,
		Departments: model.Departments,
	})
}

func searchEmployees(employees []model.Employee, search string) []model.Employee {
	if search == "" {
		return employees
	}
	needle := strings.ToLower(search)
	var matched []model.Employee
	for _, e := range employees {
		if strings.Contains(strings.ToLower(e.FullName), needle) ||
			strings.Contains(strings.ToLower(e.EmployeeID), needle) ||
			strings.Contains(strings.ToLower(e.Department), needle) ||
			strings.Contains(strings.ToLower(e.Email), needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

// CreateEmployee handles the add-employee form post. Field errors
// re-render the page with the dialog open; an API failure becomes a
// transient alert; success redirects back to the listing.
func (c *Console) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	form := forms.EmployeeForm{
		EmployeeID: r.FormValue("employee_id"),
		FullName:   r.FormValue("full_name"),
		Email:      r.FormValue("email"),
		Department: r.FormValue("department"),
	}

	emp, fieldErrs, err := c.Coordinator.CreateEmployee(r.Context(), form)
	if err != nil {
		redirectWith(w, r, "/employees", flash{Alert: err.Error()})
		return
	}
	if !fieldErrs.Valid() {
		snap := c.Employees.Snapshot()
		c.render(w, r, "employees.html", employeesPage{
			Employees:   snap,
			Filtered:    snap.Data,
			Departments: model.Departments,
			Form:        form,
			FormErrors:  fieldErrs,
		})
		return
	}

	redirectWith(w, r, "/employees", flash{Notice: emp.FullName + " added successfully!"})
}

type employeeDetailPage struct {
	flash
	Employee   *model.Employee
	Records    []model.AttendanceRecord
	Summary    model.AttendanceSummary
	HasSummary bool
}

// ShowEmployee renders one employee with their attendance history and
// memoized summary.
func (c *Console) ShowEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	emp, apiErr := c.Client.GetEmployee(r.Context(), id)
	if apiErr != nil {
		redirectWith(w, r, "/employees", flash{Alert: apiErr.Error()})
		return
	}

	records, apiErr := c.Client.AttendanceByEmployee(r.Context(), emp.EmployeeID)
	if apiErr != nil {
		log.Ctx(r.Context()).Warn().Err(apiErr).Msg("attendance history fetch failed")
	}
	summary, ok := c.Summaries.Get(r.Context(), emp.EmployeeID)

	c.render(w, r, "employee_detail.html", employeeDetailPage{
		flash:      flashFrom(r),
		Employee:   emp,
		Records:    records,
		Summary:    summary,
		HasSummary: ok,
	})
}

type confirmDeletePage struct {
	Employee *model.Employee
}

// ConfirmDeleteEmployee renders the explicit confirmation step before a
// delete is allowed to fire.
func (c *Console) ConfirmDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	emp, apiErr := c.Client.GetEmployee(r.Context(), id)
	if apiErr != nil {
		redirectWith(w, r, "/employees", flash{Alert: apiErr.Error()})
		return
	}
	c.render(w, r, "confirm_delete.html", confirmDeletePage{Employee: emp})
}

// DeleteEmployee fires the confirmed delete.
func (c *Console) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	confirmed := r.FormValue("confirmed") == "true"
	if err := c.Coordinator.DeleteEmployee(r.Context(), id, confirmed); err != nil {
		redirectWith(w, r, "/employees", flash{Alert: err.Error()})
		return
	}
	redirectWith(w, r, "/employees", flash{Notice: "Employee deleted."})
}

type attendancePage struct {
	flash
	Records   store.Snapshot[[]model.AttendanceRecord]
	Employees []model.Employee
	Filter    hrms.AttendanceFilter

	SelectedEmployee *model.Employee
	Summary          model.AttendanceSummary
	HasSummary       bool

	Statuses   []model.AttendanceStatus
	Form       forms.AttendanceForm
	FormErrors forms.FieldErrors
	Today      model.Date
}

// ShowAttendance applies the filters from the query string, runs the fetch
// cycle and renders the table, with the memoized summary panel when an
// employee filter is active.
func (c *Console) ShowAttendance(w http.ResponseWriter, r *http.Request) {
	filter := hrms.AttendanceFilter{EmployeeID: r.URL.Query().Get("employee_id")}
	if raw := r.URL.Query().Get("date"); raw != "" {
		if d, err := model.ParseDate(raw); err == nil {
			filter.Date = d
		}
	}

	if err := c.Attendance.Apply(r.Context(), filter); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("attendance fetch cycle failed")
	}

	c.render(w, r, "attendance.html", c.attendancePage(r, flashFrom(r), forms.NewAttendanceForm(), nil))
}

func (c *Console) attendancePage(r *http.Request, f flash, form forms.AttendanceForm, fieldErrs forms.FieldErrors) attendancePage {
	filter := c.Attendance.Filter()
	employees := c.Attendance.Employees.Snapshot().Data

	page := attendancePage{
		flash:      f,
		Records:    c.Attendance.Records.Snapshot(),
		Employees:  employees,
		Filter:     filter,
		Statuses:   []model.AttendanceStatus{model.StatusPresent, model.StatusAbsent},
		Form:       form,
		FormErrors: fieldErrs,
		Today:      model.Today(),
	}

	if filter.EmployeeID != "" {
		for i := range employees {
			if employees[i].EmployeeID == filter.EmployeeID {
				page.SelectedEmployee = &employees[i]
				break
			}
		}
		if page.SelectedEmployee != nil {
			page.Summary, page.HasSummary = c.Summaries.Get(r.Context(), filter.EmployeeID)
		}
	}
	return page
}

// MarkAttendance handles the mark-attendance form post.
func (c *Console) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	form := forms.AttendanceForm{
		EmployeeID: r.FormValue("employee_id"),
		Status:     model.AttendanceStatus(r.FormValue("status")),
	}
	if raw := r.FormValue("date"); raw != "" {
		if d, err := model.ParseDate(raw); err == nil {
			form.Date = d
		}
	}

	fieldErrs, err := c.Coordinator.MarkAttendance(r.Context(), form)
	if err != nil {
		redirectWith(w, r, attendancePath(c.Attendance.Filter()), flash{Alert: err.Error()})
		return
	}
	if !fieldErrs.Valid() {
		c.render(w, r, "attendance.html", c.attendancePage(r, flash{}, form, fieldErrs))
		return
	}

	redirectWith(w, r, attendancePath(c.Attendance.Filter()), flash{Notice: "Attendance recorded successfully!"})
}

// RefreshSummary is the manual retry affordance for a summary whose fetch
// failed silently.
func (c *Console) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := r.FormValue("employee_id")
	if employeeID != "" {
		c.Summaries.Refresh(r.Context(), employeeID)
	}
	redirectWith(w, r, attendancePath(c.Attendance.Filter()), flash{})
}

func attendancePath(filter hrms.AttendanceFilter) string {
	q := url.Values{}
	if filter.EmployeeID != "" {
		q.Set("employee_id", filter.EmployeeID)
	}
	if !filter.Date.IsZero() {
		q.Set("date", filter.Date.String())
	}
	if len(q) == 0 {
		return "/attendance"
	}
	return "/attendance?" + q.Encode()
}
