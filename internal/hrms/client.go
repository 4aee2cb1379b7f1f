package hrms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hrms.console/internal/core/model"
)

// Client is the contract for the remote HRMS API, one operation per server
// resource. Every call is single-attempt; retrying is the caller's decision.
type Client interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceRecord, error)
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*model.AttendanceRecord, error)
	AttendanceByEmployee(ctx context.Context, employeeID string) ([]model.AttendanceRecord, error)
	AttendanceSummary(ctx context.Context, employeeID string) (*model.AttendanceSummary, error)
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// CreateEmployeeRequest is the payload for registering a new employee.
type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// MarkAttendanceRequest is the payload for recording one day of attendance.
type MarkAttendanceRequest struct {
	EmployeeID string                 `json:"employee_id"`
	Date       model.Date             `json:"date"`
	Status     model.AttendanceStatus `json:"status"`
}

// AttendanceFilter narrows the attendance listing. Both fields are optional
// and combine with logical AND when both are set.
type AttendanceFilter struct {
	EmployeeID string
	Date       model.Date
}

// IsZero reports whether no filter is active.
func (f AttendanceFilter) IsZero() bool {
	return f.EmployeeID == "" && f.Date.IsZero()
}

func (f AttendanceFilter) query() string {
	q := url.Values{}
	if f.EmployeeID != "" {
		q.Set("employee_id", f.EmployeeID)
	}
	if !f.Date.IsZero() {
		q.Set("date", f.Date.String())
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// HTTPClient is the API client over plain HTTP.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	cb      *gobreaker.CircuitBreaker
}

// NewHTTPClient builds a client for the API at baseURL with a fixed
// per-request timeout. Requests pass through a circuit breaker so a dead
// backend fails fast instead of holding every call for the full timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	settings := gobreaker.Settings{
		Name:        "HRMS-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger than 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// do runs one request through the circuit breaker and normalizes every
// failure mode into an *APIError. It returns the raw response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, normalizeTransportError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, normalizeTransportError(err)
		}

		if resp.StatusCode >= 500 {
			return nil, normalizeResponseError(resp.StatusCode, body)
		}
		if resp.StatusCode >= 300 {
			// 4xx means the backend is healthy and rejected this
			// particular request. Returned as a value so the breaker
			// does not count it toward tripping.
			return normalizeResponseError(resp.StatusCode, body), nil
		}
		return body, nil
	})
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			// Open or half-open circuit rejections come straight from
			// gobreaker and are treated like any transport failure.
			apiErr = normalizeTransportError(err)
		}
		return nil, apiErr
	}
	if apiErr, ok := result.(*APIError); ok {
		return nil, apiErr
	}
	return result.([]byte), nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return normalizeTransportError(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// ListEmployees fetches the full, unfiltered employee directory.
func (c *HTTPClient) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := c.getJSON(ctx, "/api/employees/", &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// CreateEmployee registers a new employee and returns the server's record,
// including the assigned numeric ID and creation timestamp.
func (c *HTTPClient) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/employees/", req)
	if err != nil {
		return nil, err
	}
	var emp model.Employee
	if err := json.Unmarshal(body, &emp); err != nil {
		return nil, normalizeTransportError(fmt.Errorf("failed to decode response: %w", err))
	}
	return &emp, nil
}

// DeleteEmployee removes an employee by server ID. The server cascades the
// delete to that employee's attendance records.
func (c *HTTPClient) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil)
	return err
}

// GetEmployee fetches a single employee by server ID.
func (c *HTTPClient) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	var emp model.Employee
	if err := c.getJSON(ctx, fmt.Sprintf("/api/employees/%d", id), &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListAttendance fetches attendance records matching the filter.
func (c *HTTPClient) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	if err := c.getJSON(ctx, "/api/attendance/"+filter.query(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkAttendance records one day of attendance for an employee.
func (c *HTTPClient) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/attendance/", req)
	if err != nil {
		return nil, err
	}
	var rec model.AttendanceRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, normalizeTransportError(fmt.Errorf("failed to decode response: %w", err))
	}
	return &rec, nil
}

// AttendanceByEmployee fetches the full attendance history of one employee.
func (c *HTTPClient) AttendanceByEmployee(ctx context.Context, employeeID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	path := "/api/attendance/employee/" + url.PathEscape(employeeID)
	if err := c.getJSON(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AttendanceSummary fetches the aggregate attendance counts for one employee.
func (c *HTTPClient) AttendanceSummary(ctx context.Context, employeeID string) (*model.AttendanceSummary, error) {
	var summary model.AttendanceSummary
	path := "/api/attendance/summary/" + url.PathEscape(employeeID)
	if err := c.getJSON(ctx, path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DashboardStats fetches the aggregate dashboard view.
func (c *HTTPClient) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.getJSON(ctx, "/api/dashboard/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
