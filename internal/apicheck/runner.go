package apicheck

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/cpcoach/pkg/logger"
)

const syncPollInterval = 2 * time.Second

// Run executes the complete API check against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting API check",
		logger.String("baseURL", config.BaseURL),
		logger.String("handle", config.Handle),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: service health.
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: API docs are served.
	runCheck(stats, "openapi spec", checkOpenAPI(ctx, client, config))

	// Step 3: profile registration and sync.
	profile, err := checkProfile(ctx, client, config)
	runCheck(stats, "user profile", err)

	// Step 4: recommendation, solve, skip round trip.
	if err == nil && profile.SyncState == "done" {
		rec, recErr := checkRecommendation(ctx, client, config)
		runCheck(stats, "recommendation", recErr)

		if recErr == nil {
			runCheck(stats, "solve", checkSolve(ctx, client, config, rec.Picked.Problem.ID))
			runCheck(stats, "skip", checkSkip(ctx, client, config))
		}

		// Step 5: weakness analysis with refresh.
		runCheck(stats, "weakness analysis", checkAnalysis(ctx, client, config))
	} else {
		log.Printf("⚠️  Skipping interaction checks: profile not synced")
	}

	// Step 6: global stats.
	runCheck(stats, "service stats", checkStats(ctx, client, config))

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	logger.Get().Info(ctx, "API check completed successfully")
	return nil
}

// runCheck records and reports a single check result.
func runCheck(stats *Stats, name string, err error) {
	stats.ChecksRun++
	if err != nil {
		stats.ChecksFailed++
		log.Printf("❌ %s: %v", name, err)
		return
	}
	stats.ChecksPassed++
	log.Printf("✅ %s", name)
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics).
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// checkOpenAPI verifies the API spec is served.
func checkOpenAPI(ctx context.Context, client *HTTPClient, config *Config) error {
	status, err := client.getJSON(ctx, config.BaseURL+"/openapi.yaml", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

// checkProfile fetches the user profile, waiting out a pending sync.
func checkProfile(ctx context.Context, client *HTTPClient, config *Config) (*profileResponse, error) {
	target := config.BaseURL + "/user/" + url.PathEscape(config.Handle)
	deadline := time.Now().Add(config.SyncWait)

	for {
		var profile profileResponse
		status, err := client.getJSON(ctx, target, &profile)
		if err != nil {
			return nil, err
		}

		switch status {
		case http.StatusOK:
			if profile.SyncState == "done" {
				if config.Verbose {
					log.Printf("📋 Profile: rating=%d target=%d solved=%d",
						profile.Rating, profile.TargetRating, profile.SolvedCount)
				}
				return &profile, nil
			}
		case http.StatusAccepted:
			// Sync still running, fall through to the wait below.
		default:
			return nil, fmt.Errorf("unexpected status: %d", status)
		}

		if time.Now().After(deadline) {
			return &profile, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(syncPollInterval):
		}
	}
}

// checkRecommendation requests a problem recommendation.
func checkRecommendation(ctx context.Context, client *HTTPClient, config *Config) (*recommendationResponse, error) {
	params := url.Values{"handle": {config.Handle}}
	if config.Topic != "" {
		params.Set("topic", config.Topic)
	}

	var rec recommendationResponse
	status, err := client.getJSON(ctx, config.BaseURL+"/recommend?"+params.Encode(), &rec)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", status)
	}
	if rec.Picked.Problem.ID == "" {
		return nil, fmt.Errorf("empty recommendation")
	}
	if config.Verbose {
		log.Printf("🎯 Recommended: %s (%s, %d)", rec.Picked.Problem.ID, rec.Picked.Problem.Name, rec.Picked.Problem.Rating)
	}
	return &rec, nil
}

// checkSolve records an accepted solve for the recommended problem.
func checkSolve(ctx context.Context, client *HTTPClient, config *Config, problemID string) error {
	body := map[string]interface{}{
		"handle":             config.Handle,
		"verdict":            "AC",
		"time_taken_seconds": 600,
	}

	var ack ackResponse
	status, err := client.postJSON(ctx, config.BaseURL+"/solve/"+url.PathEscape(problemID), body, &ack)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	if ack.Kind != "solve" {
		return fmt.Errorf("unexpected ack kind: %q", ack.Kind)
	}
	if config.Verbose {
		log.Printf("📈 New target after solve: %d", ack.TargetRating)
	}
	return nil
}

// checkSkip recommends a fresh problem and skips it as too hard.
func checkSkip(ctx context.Context, client *HTTPClient, config *Config) error {
	rec, err := checkRecommendation(ctx, client, config)
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"handle":   config.Handle,
		"feedback": "too_hard",
	}

	var ack ackResponse
	status, err := client.postJSON(ctx, config.BaseURL+"/skip/"+url.PathEscape(rec.Picked.Problem.ID), body, &ack)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	if ack.Kind != "skip" {
		return fmt.Errorf("unexpected ack kind: %q", ack.Kind)
	}
	return nil
}

// checkAnalysis runs weakness analysis twice, the second time with a forced
// refresh, and verifies both produce a coherent report.
func checkAnalysis(ctx context.Context, client *HTTPClient, config *Config) error {
	target := config.BaseURL + "/analysis/weaknesses?handle=" + url.QueryEscape(config.Handle)

	var first analysisResponse
	status, err := client.getJSON(ctx, target, &first)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	if first.Report.Handle != config.Handle {
		return fmt.Errorf("report handle mismatch: %q", first.Report.Handle)
	}

	var second analysisResponse
	status, err = client.getJSON(ctx, target+"&refresh=true", &second)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("refresh returned status: %d", status)
	}

	if config.Verbose {
		log.Printf("🔍 Weak bands: %d, weak topics: %d, upsolve suggestions: %d",
			len(first.Report.WeakBands), len(first.Report.WeakTopics), len(first.Upsolve))
	}
	return nil
}

// checkStats fetches service-wide statistics.
func checkStats(ctx context.Context, client *HTTPClient, config *Config) error {
	var stats statsResponse
	status, err := client.getJSON(ctx, config.BaseURL+"/stats", &stats)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	if stats.Users < 1 {
		return fmt.Errorf("expected at least one tracked user, got %d", stats.Users)
	}
	if config.Verbose {
		log.Printf("📊 Users: %d, problems: %d, queue depth: %d", stats.Users, stats.Problems, stats.QueueDepth)
	}
	return nil
}

// displayFinalStats prints the final check statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()))
}
