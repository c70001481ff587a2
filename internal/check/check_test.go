package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
)

// recordingLogger captures formatted lines for assertions.
type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) log(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}
func (r *recordingLogger) Info(f string, a ...interface{})          { r.log(f, a...) }
func (r *recordingLogger) Success(f string, a ...interface{})       { r.log(f, a...) }
func (r *recordingLogger) Warn(f string, a ...interface{})          { r.log(f, a...) }
func (r *recordingLogger) Error(f string, a ...interface{})         { r.log(f, a...) }
func (r *recordingLogger) Debug(v bool, f string, a ...interface{}) { r.log(f, a...) }

func TestRunCheck_ReportsAllSections(t *testing.T) {
	cfg := config.DefaultConfig()
	rec := &recordingLogger{}

	RunCheck(&cfg, rec)

	if len(rec.lines) < 4 {
		t.Fatalf("expected at least 4 check lines, got %d: %v", len(rec.lines), rec.lines)
	}
	if rec.lines[0] != "=== System Check ===" {
		t.Errorf("first line = %q", rec.lines[0])
	}
}

func TestCheckOutputDir_CreatesAndProbes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "artifacts")
	rec := &recordingLogger{}

	checkOutputDir(&cfg, rec)

	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "writable") {
		t.Errorf("lines = %v, want a single writable line", rec.lines)
	}
	// The missing directory must have been created by the probe.
	info, err := os.Stat(cfg.OutputDir)
	if err != nil || !info.IsDir() {
		t.Errorf("output dir not created by probe: %v", err)
	}
}

func TestCheckOutputDir_UnsetMeansScannedFolder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = ""
	rec := &recordingLogger{}

	checkOutputDir(&cfg, rec)

	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "scanned folder") {
		t.Errorf("lines = %v, want the scanned-folder notice", rec.lines)
	}
}

func TestCheckDeps_OnlyForcedExiftoolIsHard(t *testing.T) {
	for _, engine := range []config.EngineMode{config.EngineGoexif, config.EngineAuto} {
		cfg := config.DefaultConfig()
		cfg.Engine = engine
		// Even with a bogus binary path these modes must pass; auto degrades
		// at runtime instead of failing up front.
		cfg.ExiftoolPath = "/nonexistent/exiftool-test-binary"
		if err := CheckDeps(&cfg); err != nil {
			t.Errorf("CheckDeps with engine %q: %v, want nil", engine, err)
		}
	}
}

func TestCheckDeps_MissingExiftoolBinary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine = config.EngineExiftool
	cfg.ExiftoolPath = "/nonexistent/exiftool-test-binary"

	err := CheckDeps(&cfg)
	if !errors.Is(err, ErrExiftoolNotFound) {
		t.Errorf("CheckDeps() = %v, want ErrExiftoolNotFound", err)
	}
}
