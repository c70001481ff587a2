// Command photogps is the CLI entrypoint for the PhotoGPS Extractor.
//
// It loads configuration from the environment, prompts for the folder to
// scan, and either runs system diagnostics (PHOTOGPS_CHECK) or the
// extraction pipeline.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lzcapp/PhotoGPSExtractor/internal/check"
	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
	"github.com/lzcapp/PhotoGPSExtractor/internal/display"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
	"github.com/lzcapp/PhotoGPSExtractor/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
// The Makefile is the authoritative source for VERSION; see the Makefile for ldflags details.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// A panic anywhere below exits with code 1 and a one-line report.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "photogps: internal error: %v\n", r)
			code = 1
		}
	}()

	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "photogps: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "photogps: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photogps: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		if err := check.CheckDeps(&cfg); err != nil {
			return 1
		}
		return 0
	}

	// Phase 3: Ask for the folder to scan and validate it. The input path is
	// the only interactive question; everything else comes from PHOTOGPS_*.
	fmt.Print("Enter the folder path to scan: ")
	line, readErr := bufio.NewReader(os.Stdin).ReadString('\n')
	input := config.CleanPathArg(line)
	if input == "" {
		if readErr != nil {
			fmt.Println()
		}
		log.Error("No folder path provided")
		return 1
	}

	inputAbs, err := absPath(input)
	if err != nil {
		log.Error("Cannot access folder: %s", input)
		return 1
	}
	fi, err := os.Stat(inputAbs)
	if err != nil {
		log.Error("Cannot access folder: %s", inputAbs)
		return 1
	}
	if !fi.IsDir() {
		log.Error("Not a folder: %s", inputAbs)
		return 1
	}
	cfg.InputDir = inputAbs

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return 1
		}
	}

	log.Info("=== PhotoGPS Extractor v%s (%s) ===", version, commit)
	log.Info("Scanning: %s", cfg.InputDir)
	if cfg.OutputDir != "" {
		log.Info("Artifacts: %s", cfg.OutputDir)
	}
	log.Info("")

	// Fail fast if a forced exiftool engine is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 4: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline can stop between files without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current files…")
		cancel()
	}()

	// Phase 5: Run pipeline (discover -> extract -> export).
	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path so the scan root is
// stable no matter how the user typed it.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
