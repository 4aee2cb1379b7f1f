// Seeds the HRMS API with employees and a few weeks of attendance so the
// console has something to show during development.
package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	baseURL := "http://localhost:8000"
	contentType := "application/json"

	departments := []string{
		"Engineering", "Product", "Design", "Marketing", "Sales",
		"Human Resources", "Finance", "Operations", "Legal", "Customer Support",
	}

	numEmployees := 25
	daysOfHistory := 14
	concurrency := 5 // Number of concurrent requests to avoid hammering a local backend

	fmt.Printf("Seeding %d employees with %d days of attendance against %s\n", numEmployees, daysOfHistory, baseURL)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			employeeID := fmt.Sprintf("EMP-%03d", n+1)
			dept := departments[n%len(departments)]
			payload := []byte(fmt.Sprintf(
				`{"employee_id": %q, "full_name": "Seed Employee %d", "email": "seed%d@company.com", "department": %q}`,
				employeeID, n+1, n+1, dept))

			if !post(baseURL+"/api/employees/", contentType, payload, &successCount, &failCount) {
				return
			}

			for day := 0; day < daysOfHistory; day++ {
				date := time.Now().AddDate(0, 0, -day).Format("2006-01-02")
				status := "Present"
				if (n+day)%5 == 0 {
					status = "Absent"
				}
				attPayload := []byte(fmt.Sprintf(
					`{"employee_id": %q, "date": %q, "status": %q}`, employeeID, date, status))
				post(baseURL+"/api/attendance/", contentType, attPayload, &successCount, &failCount)
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Seed Results ---")
	fmt.Printf("Duration:   %v\n", duration)
	fmt.Printf("Successful: %d\n", successCount)
	fmt.Printf("Failed:     %d\n", failCount)
}

func post(url, contentType string, payload []byte, successCount, failCount *int64) bool {
	resp, err := http.Post(url, contentType, bytes.NewBuffer(payload))
	if err != nil {
		atomic.AddInt64(failCount, 1)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.AddInt64(successCount, 1)
		return true
	}
	atomic.AddInt64(failCount, 1)
	return false
}
