// In-memory stand-in for the HRMS backend, for developing the console
// without the real API. Implements the same endpoints and error envelope.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type employee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

type attendanceRecord struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	FullName   string    `json:"full_name,omitempty"`
	Department string    `json:"department,omitempty"`
}

type server struct {
	mu         sync.Mutex
	employees  []employee
	attendance []attendanceRecord
	nextEmpID  int64
	nextAttID  int64
}

func newServer() *server {
	return &server{nextEmpID: 1, nextAttID: 1}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, append([]employee{}, s.employees...))
	case http.MethodPost:
		var req employee
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, e := range s.employees {
			if e.EmployeeID == req.EmployeeID {
				writeDetail(w, http.StatusBadRequest, "Employee ID already exists")
				return
			}
		}
		req.ID = s.nextEmpID
		s.nextEmpID++
		req.CreatedAt = time.Now().UTC()
		s.employees = append(s.employees, req)
		writeJSON(w, http.StatusCreated, req)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *server) handleEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/employees/"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Employee not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.employees {
		if e.ID != id {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, e)
		case http.MethodDelete:
			// Cascade to the employee's attendance records.
			kept := s.attendance[:0]
			for _, a := range s.attendance {
				if a.EmployeeID != e.EmployeeID {
					kept = append(kept, a)
				}
			}
			s.attendance = kept
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	writeDetail(w, http.StatusNotFound, "Employee not found")
}

func (s *server) findEmployee(employeeID string) *employee {
	for i := range s.employees {
		if s.employees[i].EmployeeID == employeeID {
			return &s.employees[i]
		}
	}
	return nil
}

func (s *server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		employeeID := r.URL.Query().Get("employee_id")
		date := r.URL.Query().Get("date")
		s.mu.Lock()
		defer s.mu.Unlock()
		result := []attendanceRecord{}
		for _, a := range s.attendance {
			if employeeID != "" && a.EmployeeID != employeeID {
				continue
			}
			if date != "" && a.Date != date {
				continue
			}
			result = append(result, a)
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodPost:
		var req attendanceRecord
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		emp := s.findEmployee(req.EmployeeID)
		if emp == nil {
			writeDetail(w, http.StatusNotFound, "Employee not found")
			return
		}
		// One record per (employee, date): a second write overwrites.
		for i, a := range s.attendance {
			if a.EmployeeID == req.EmployeeID && a.Date == req.Date {
				s.attendance[i].Status = req.Status
				writeJSON(w, http.StatusOK, s.attendance[i])
				return
			}
		}
		req.ID = s.nextAttID
		s.nextAttID++
		req.CreatedAt = time.Now().UTC()
		req.FullName = emp.FullName
		req.Department = emp.Department
		s.attendance = append(s.attendance, req)
		writeJSON(w, http.StatusCreated, req)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *server) handleAttendanceByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimPrefix(r.URL.Path, "/api/attendance/employee/")
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []attendanceRecord{}
	for _, a := range s.attendance {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := strings.TrimPrefix(r.URL.Path, "/api/attendance/summary/")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findEmployee(employeeID) == nil {
		writeDetail(w, http.StatusNotFound, "Employee not found")
		return
	}
	total, present, absent := 0, 0, 0
	for _, a := range s.attendance {
		if a.EmployeeID != employeeID {
			continue
		}
		total++
		if a.Status == "Present" {
			present++
		} else {
			absent++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id":  employeeID,
		"total_days":   total,
		"present_days": present,
		"absent_days":  absent,
	})
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := time.Now().Format("2006-01-02")
	presentToday, absentToday := 0, 0
	for _, a := range s.attendance {
		if a.Date != today {
			continue
		}
		if a.Status == "Present" {
			presentToday++
		} else {
			absentToday++
		}
	}
	counts := map[string]int{}
	order := []string{}
	for _, e := range s.employees {
		if _, seen := counts[e.Department]; !seen {
			order = append(order, e.Department)
		}
		counts[e.Department]++
	}
	deptStats := []map[string]any{}
	for _, d := range order {
		deptStats = append(deptStats, map[string]any{"department": d, "count": counts[d]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_employees":          len(s.employees),
		"total_attendance_records": len(s.attendance),
		"present_today":            presentToday,
		"absent_today":             absentToday,
		"department_stats":         deptStats,
	})
}

func main() {
	s := newServer()

	http.HandleFunc("/api/employees/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/employees/" {
			s.handleEmployees(w, r)
			return
		}
		s.handleEmployeeByID(w, r)
	})
	http.HandleFunc("/api/attendance/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/attendance/":
			s.handleAttendance(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/attendance/employee/"):
			s.handleAttendanceByEmployee(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/attendance/summary/"):
			s.handleSummary(w, r)
		default:
			writeDetail(w, http.StatusNotFound, "Not found")
		}
	})
	http.HandleFunc("/api/dashboard/", s.handleDashboard)

	log.Println("HRMS API mock server starting on port 8000...")
	log.Fatal(http.ListenAndServe(":8000", nil))
}
