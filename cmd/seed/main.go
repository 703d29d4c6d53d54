package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/liga/internal/seed"
	"github.com/okian/liga/pkg/logger"
)

// Default configuration constants.
const (
	defaultRounds     = 5
	defaultChallenge  = "Fortaleza"
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		rounds     = flag.Int("rounds", defaultRounds, "Number of submission rounds per team")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		challenge  = flag.String("challenge", defaultChallenge, "Challenge name recorded on the first round")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated submissions (default: seed_submissions_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := seed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:    *baseURL,
		Rounds:     *rounds,
		Workers:    *workers,
		Timeout:    *timeout,
		Challenge:  *challenge,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
