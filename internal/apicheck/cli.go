package apicheck

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/cpcoach/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "apicheck_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the API check tool.
func ShowHelp() {
	os.Stdout.WriteString(`CP Coach API Check Tool
=======================

Exercises a running CP Coach service end to end: profile sync,
recommendations, solve/skip interactions, and weakness analysis.

Usage:
  go run cmd/apicheck/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -handle string
        Codeforces handle to exercise (default "tourist")
  -topic string
        Topic filter for recommendation checks
  -timeout duration
        HTTP request timeout (default 30s)
  -sync-wait duration
        How long to wait for the initial history sync (default 2m)
  -log string
        Log file for check output (default: apicheck_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check a local service with default settings
  go run cmd/apicheck/main.go

  # Check a remote deployment for a specific handle
  go run cmd/apicheck/main.go -url http://coach.internal:8080 -handle Benq

  # Check recommendations for a topic
  go run cmd/apicheck/main.go -handle tourist -topic dp -verbose
`)
}
