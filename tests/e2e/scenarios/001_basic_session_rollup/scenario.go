package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalLines   = 64000   // Total number of log lines to generate
	chunkBytes   = 1048576 // Byte count per log line (1 MiB, above the default min record size)
	clientCount  = 4       // Distinct client IPs
	serviceCount = 4       // Distinct upstream services
)

var (
	services = []string{"steam", "epic", "origin", "blizzard"}
	depots   = []string{"228980", "440", "730", "570"}
)

// ### End - fixed configs

type ingestResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type serviceAggregate struct {
	Service      string `json:"service"`
	HitBytes     int64  `json:"hitBytes"`
	MissBytes    int64  `json:"missBytes"`
	SessionCount int64  `json:"sessionCount"`
}

// main runs the e2e scenario: 001_basic_session_rollup
//
// This scenario tests the end-to-end flow of raw line ingestion, parsing,
// batching and session aggregation. It sends 64,000 cache access log lines
// across multiple batches to the download analytics API and then reads the
// aggregated views back.
//
// What it tests:
//   - Raw line ingestion via POST /logs endpoint (text body, one line each)
//   - Parser acceptance of the cache access log format
//   - Batch flushing (size and time triggers under sustained load)
//   - Session reconstruction and client/service stat rollups
//   - Read-side projections via GET /api/services and GET /api/clients
//
// Expected results:
//   - Every posted line is accepted (202 with accepted == lines per batch)
//   - Four service aggregates appear, one per upstream service
//   - Each service accumulates 16,000 lines * 1 MiB split across hit and
//     miss counters (alternating per line)
//   - Each client aggregate reports activity across all four services
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the download analytics API server
	linesPerBatch := 500               // Number of log lines per POST /logs body
	parallel := 2                      // Number of concurrent batch requests to send
	settleSeconds := 10                // Seconds to wait after sending before reading aggregates

	if totalLines%linesPerBatch != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: totalLines (%d) must be divisible by linesPerBatch (%d)\n", totalLines, linesPerBatch)
		os.Exit(1)
	}
	batchCount := totalLines / linesPerBatch

	fmt.Println("Starting e2e scenario: 001_basic_session_rollup")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("LINES_PER_BATCH: %d\n", linesPerBatch)
	fmt.Printf("BATCH_COUNT: %d\n", batchCount)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("TOTAL_LINES: %d\n", totalLines)
	fmt.Println()

	// Generate all batches up front so sending measures only the server.
	fmt.Printf("Generating %d batches...\n", batchCount)
	batches := make([]string, 0, batchCount)
	for batchIndex := 0; batchIndex < batchCount; batchIndex++ {
		batches = append(batches, generateBatchBody(batchIndex, linesPerBatch))
	}
	fmt.Printf("Generated %d batches\n", len(batches))
	fmt.Println()

	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errors []error
	var acceptedLines int64
	var rejectedLines int64

	for batchIndex, body := range batches {
		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(batchIndex int, body string) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			result, err := sendBatch(baseURL, body)
			if err != nil {
				mu.Lock()
				errors = append(errors, fmt.Errorf("batch %d: %w", batchIndex, err))
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "ERROR: Batch %d failed: %v\n", batchIndex, err)
				return
			}
			atomic.AddInt64(&acceptedLines, int64(result.Accepted))
			atomic.AddInt64(&rejectedLines, int64(result.Rejected))
		}(batchIndex, body)
	}
	wg.Wait()

	fmt.Println()
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d batch sends failed\n", len(errors))
		os.Exit(1)
	}

	fmt.Println("All batches completed successfully")
	fmt.Println("=== Statistics ===")
	fmt.Printf("Accepted lines: %d\n", atomic.LoadInt64(&acceptedLines))
	fmt.Printf("Rejected lines: %d\n", atomic.LoadInt64(&rejectedLines))

	if atomic.LoadInt64(&acceptedLines) != totalLines {
		fmt.Fprintf(os.Stderr, "ERROR: expected %d accepted lines\n", totalLines)
		os.Exit(1)
	}

	// Let the time trigger flush the trailing partial batch.
	fmt.Printf("Waiting %ds for the pipeline to settle...\n", settleSeconds)
	time.Sleep(time.Duration(settleSeconds) * time.Second)

	aggregates, err := fetchServiceAggregates(baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read service aggregates: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Service aggregates ===")
	var totalBytes int64
	for _, agg := range aggregates {
		fmt.Printf("%s: hit=%d miss=%d sessions=%d\n", agg.Service, agg.HitBytes, agg.MissBytes, agg.SessionCount)
		totalBytes += agg.HitBytes + agg.MissBytes
	}

	if len(aggregates) != serviceCount {
		fmt.Fprintf(os.Stderr, "ERROR: expected %d service aggregates, got %d\n", serviceCount, len(aggregates))
		os.Exit(1)
	}
	if want := int64(totalLines) * chunkBytes; totalBytes != want {
		fmt.Fprintf(os.Stderr, "ERROR: expected %d aggregated bytes, got %d\n", want, totalBytes)
		os.Exit(1)
	}

	fmt.Println("Scenario completed successfully")
}

// generateLine builds one cache access log line. Hit and miss alternate per
// line so the expected split is exactly half of each service's bytes.
func generateLine(lineIndex int) string {
	serviceIndex := lineIndex % serviceCount
	clientIndex := (lineIndex / serviceCount) % clientCount
	depot := depots[serviceIndex]

	cacheStatus := "HIT"
	if lineIndex%2 == 1 {
		cacheStatus = "MISS"
	}

	// Spread timestamps over a few minutes so every line lands inside one
	// session per (client, service) key.
	ts := time.Now().UTC().Add(-time.Duration(lineIndex%180) * time.Second)

	return fmt.Sprintf(
		`[%s] 10.0.0.%d / - - - [%s] "GET /depot/%s/chunk/%08x HTTP/1.1" 200 %d "-" "Valve/Steam HTTP Client 1.0" "%s" "cache.local" "-"`,
		services[serviceIndex],
		clientIndex+1,
		ts.Format("02/Jan/2006:15:04:05 -0700"),
		depot,
		lineIndex,
		chunkBytes,
		cacheStatus,
	)
}

func generateBatchBody(batchIndex, linesPerBatch int) string {
	var sb strings.Builder
	for i := 0; i < linesPerBatch; i++ {
		sb.WriteString(generateLine(batchIndex*linesPerBatch + i))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func sendBatch(baseURL, body string) (*ingestResult, error) {
	req, err := http.NewRequest("POST", baseURL+"/logs", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var result ingestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func fetchServiceAggregates(baseURL string) ([]serviceAggregate, error) {
	resp, err := http.Get(baseURL + "/api/services")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var aggregates []serviceAggregate
	if err := json.Unmarshal(body, &aggregates); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", string(body), err)
	}
	return aggregates, nil
}
