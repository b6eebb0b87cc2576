// mesh-sim drives a locally running recovery engine through a scripted
// incident so the control API and metrics can be exercised end to end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	var (
		baseURL  = flag.String("engine", "http://localhost:8080", "Base URL of the recovery engine")
		incident = flag.String("incident", "link_failure", "Issue type to simulate")
	)
	flag.Parse()

	logger := log.New(log.Writer(), "mesh-sim ", log.LstdFlags|log.Lmicroseconds)
	client := &http.Client{Timeout: 5 * time.Second}

	post := func(path string, payload any) map[string]any {
		var body bytes.Buffer
		if payload != nil {
			if err := json.NewEncoder(&body).Encode(payload); err != nil {
				logger.Fatalf("encode %s payload: %v", path, err)
			}
		}
		resp, err := client.Post(*baseURL+path, "application/json", &body)
		if err != nil {
			logger.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			logger.Fatalf("POST %s: status %d", path, resp.StatusCode)
		}
		var decoded map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
		return decoded
	}

	logger.Printf("degrading mesh, engine at %s", *baseURL)
	post("/api/v1/cadence/state", map[string]string{"state": "critical"})

	started := post("/api/v1/recovery/start", map[string]string{"issueType": *incident})
	logger.Printf("recovery started: %v", started["attemptId"])

	time.Sleep(500 * time.Millisecond)
	post("/api/v1/recovery/diagnosis", nil)

	time.Sleep(200 * time.Millisecond)
	post("/api/v1/recovery/first-action", nil)

	executed := post("/api/v1/actions/execute", []map[string]any{
		{"id": "restart_critical_services", "priority": "critical", "estimatedReductionSeconds": 5.0},
		{"id": "isolate_failure", "priority": "high", "estimatedReductionSeconds": 3.0},
		{"id": "reroute_traffic", "priority": "medium", "estimatedReductionSeconds": 2.0, "dependencies": []string{"isolate_failure"}},
	})
	logger.Printf("actions executed: %v", executed["executed"])

	time.Sleep(300 * time.Millisecond)
	post("/api/v1/recovery/complete", map[string]bool{"success": true})
	post("/api/v1/cadence/state", map[string]string{"state": "recovering"})
	post("/api/v1/cadence/state", map[string]string{"state": "healthy"})

	resp, err := client.Get(*baseURL + "/api/v1/statistics")
	if err != nil {
		logger.Fatalf("GET statistics: %v", err)
	}
	defer resp.Body.Close()
	var summary map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		logger.Fatalf("decode statistics: %v", err)
	}
	fmt.Printf("recovery summary: %v\n", summary)
}
