package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/cpcoach/internal/apicheck"
)

// Default configuration constants.
const (
	defaultTimeout      = 30 * time.Second
	defaultSyncWait     = 2 * time.Minute
	defaultCheckTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		handle   = flag.String("handle", "tourist", "Codeforces handle to exercise")
		topic    = flag.String("topic", "", "Topic filter for recommendation checks")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		syncWait = flag.Duration("sync-wait", defaultSyncWait, "How long to wait for the initial history sync")
		logFile  = flag.String("log", "", "Log file for check output (default: apicheck_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		apicheck.ShowHelp()
		return
	}

	if err := apicheck.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	config := &apicheck.Config{
		BaseURL:  *baseURL,
		Handle:   *handle,
		Topic:    *topic,
		Timeout:  *timeout,
		SyncWait: *syncWait,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	if err := apicheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("API check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
