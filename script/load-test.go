package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"
)

// PurchaseRequest represents the purchase payload
type PurchaseRequest struct {
	UserID string `json:"userId"`
}

// ErrorResponse is the error envelope returned by the API
type ErrorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// SaleResponse is the subset of the current sale the test needs
type SaleResponse struct {
	Data struct {
		ID             string `json:"id"`
		TotalStock     int64  `json:"totalStock"`
		RemainingStock int64  `json:"remainingStock"`
		Status         string `json:"status"`
	} `json:"data"`
}

// TestResult contains the outcome of a single request
type TestResult struct {
	Outcome      string
	ResponseTime time.Duration
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests int
	TotalTime     time.Duration
	ResponseTimes []time.Duration
	Outcomes      map[string]int
	Lock          sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 50, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of purchase attempts")
	distinctUsers := flag.Int("users", 500, "Number of distinct user ids; fewer than -n repeats users")
	baseURL := flag.String("url", "http://localhost:3000", "Base URL for the API")
	flag.Parse()

	if *distinctUsers < 1 {
		*distinctUsers = 1
	}

	client := &http.Client{Timeout: 10 * time.Second}

	before, err := currentSale(client, *baseURL)
	if err != nil {
		fmt.Printf("Failed to read the current sale: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sale %s (%s): %d/%d units left\n", before.Data.ID, before.Data.Status,
		before.Data.RemainingStock, before.Data.TotalStock)
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d across %d users\n", *totalRequests, *distinctUsers)

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		Outcomes:      make(map[string]int),
	}

	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	// Workers wait on the gate so the burst starts at once
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			worker(client, *baseURL, *distinctUsers, jobs, stats)
		}()
	}

	startTime := time.Now()
	close(start)
	wg.Wait()
	stats.TotalTime = time.Since(startTime)

	after, err := currentSale(client, *baseURL)
	if err != nil {
		fmt.Printf("Failed to read the current sale after the run: %v\n", err)
		os.Exit(1)
	}

	if !printResults(stats, before, after) {
		os.Exit(1)
	}
}

func worker(client *http.Client, baseURL string, distinctUsers int, jobs <-chan int, stats *TestStats) {
	for jobID := range jobs {
		payload, _ := json.Marshal(PurchaseRequest{UserID: fmt.Sprintf("load-user-%05d", jobID%distinctUsers)})

		startTime := time.Now()
		resp, err := client.Post(baseURL+"/api/v1/flash-sales/current/purchase", "application/json", bytes.NewReader(payload))
		responseTime := time.Since(startTime)

		outcome := "TRANSPORT_ERROR"
		if err == nil {
			outcome = classify(resp)
			_ = resp.Body.Close()
		}

		stats.Lock.Lock()
		stats.Outcomes[outcome]++
		stats.ResponseTimes = append(stats.ResponseTimes, responseTime)
		stats.Lock.Unlock()
	}
}

func classify(resp *http.Response) string {
	if resp.StatusCode == http.StatusCreated {
		return "CONFIRMED"
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Code == "" {
		return fmt.Sprintf("HTTP_%d", resp.StatusCode)
	}
	return body.Error.Code
}

func currentSale(client *http.Client, baseURL string) (*SaleResponse, error) {
	resp, err := client.Get(baseURL + "/api/v1/flash-sales/current")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	var sale SaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats, before, after *SaleResponse) bool {
	sorted := slices.Clone(stats.ResponseTimes)
	slices.Sort(sorted)

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	if len(sorted) > 0 {
		fmt.Printf("Minimum Response:    %v\n", sorted[0])
		fmt.Printf("Maximum Response:    %v\n", sorted[len(sorted)-1])
	}
	fmt.Printf("P50 Response:        %v\n", percentile(sorted, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sorted, 90))
	fmt.Printf("P99 Response:        %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- OUTCOMES -----------------")
	for outcome, count := range stats.Outcomes {
		fmt.Printf("%-20s: %d (%.1f%%)\n", outcome, count, float64(count)/float64(stats.TotalRequests)*100)
	}

	confirmed := int64(stats.Outcomes["CONFIRMED"])
	sold := before.Data.RemainingStock - after.Data.RemainingStock

	fmt.Println("\n================= CONCLUSION =================")
	fmt.Printf("Confirmed purchases: %d, stock consumed: %d, remaining: %d\n", confirmed, sold, after.Data.RemainingStock)

	ok := confirmed <= before.Data.RemainingStock && after.Data.RemainingStock >= 0
	if ok {
		fmt.Println("No oversell detected")
	} else {
		fmt.Println("OVERSELL DETECTED")
	}
	fmt.Println("================================================")
	return ok
}
