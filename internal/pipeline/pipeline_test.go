package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.jpg")
	touch(t, dir, "scan.tiff")
	touch(t, dir, "raw.dng")
	touch(t, dir, "video.mp4")
	touch(t, dir, "notes.txt")
	touch(t, dir, "song.mp3")

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"photo.jpg", "raw.dng", "scan.tiff"}
	got := basenames(res.Files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_AllPhotoExtensions(t *testing.T) {
	dir := t.TempDir()
	exts := []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff",
		".webp", ".heic", ".heif", ".avif", ".dng", ".nef", ".cr2", ".cr3",
		".arw", ".orf", ".rw2", ".raf", ".pef", ".srw"}
	for _, ext := range exts {
		touch(t, dir, "file"+ext)
	}
	touch(t, dir, "file.mp4")

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != len(exts) {
		t.Errorf("got %d files, want %d", len(res.Files), len(exts))
	}
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "IMG_0001.JPG")
	touch(t, dir, "IMG_0002.HeIc")

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 2 {
		t.Errorf("got %d files, want 2 (case-insensitive ext matching)", len(res.Files))
	}
}

func TestDiscover_AllFilesMode(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.txt")

	res, err := Discover(context.Background(), dir, true, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 2 {
		t.Errorf("got %d files, want 2 (all files except hidden)", len(res.Files))
	}
}

func TestDiscover_SkipsJunkAndHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.jpg")
	for _, junk := range []string{"@eaDir", "#recycle", ".thumbnails"} {
		sub := filepath.Join(dir, junk)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
		touch(t, sub, "skip.jpg")
	}

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 1 {
		t.Errorf("got %d files, want 1 (junk dirs should be pruned)", len(res.Files))
	}
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "Camera", "2023"), 0o755)
	os.MkdirAll(filepath.Join(dir, "Camera", "2024"), 0o755)
	touch(t, filepath.Join(dir, "Camera", "2024"), "IMG_0001.jpg")
	touch(t, filepath.Join(dir, "Camera", "2023"), "IMG_0002.jpg")
	touch(t, filepath.Join(dir, "Camera", "2023"), "IMG_0001.jpg")

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(res.Files) != 3 {
		t.Fatalf("got %d files, want 3", len(res.Files))
	}
	// Should be sorted lexicographically.
	for i := 1; i < len(res.Files); i++ {
		if res.Files[i] < res.Files[i-1] {
			t.Errorf("not sorted: %q before %q", res.Files[i-1], res.Files[i])
		}
	}
}

func TestDiscover_SymlinksSkipped(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "real.jpg")
	if err := os.Symlink(filepath.Join(dir, "real.jpg"), filepath.Join(dir, "link.jpg")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 1 {
		t.Errorf("got %d files, want 1 (symlinks should be skipped)", len(res.Files))
	}
}

func TestDiscover_UnreadableSubdirCounted(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	dir := t.TempDir()
	touch(t, dir, "ok.jpg")
	locked := filepath.Join(dir, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, locked, "secret.jpg")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover should not abort on an unreadable subdir: %v", err)
	}
	if len(res.Files) != 1 {
		t.Errorf("got %d files, want 1", len(res.Files))
	}
	if res.SkippedDirs != 1 {
		t.Errorf("SkippedDirs: got %d, want 1", res.SkippedDirs)
	}
}

func TestDiscover_TotalBytes(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, dir, "a.jpg", make([]byte, 100))
	writeBytes(t, dir, "b.jpg", make([]byte, 50))

	res, err := Discover(context.Background(), dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if res.TotalBytes != 150 {
		t.Errorf("TotalBytes: got %d, want 150", res.TotalBytes)
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	res, err := Discover(context.Background(), t.TempDir(), false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("got %d files, want 0", len(res.Files))
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(context.Background(), filepath.Join(t.TempDir(), "nope"), false, nil)
	if err == nil {
		t.Fatal("want error for a missing root")
	}
}

func TestDiscover_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	_, err := Discover(context.Background(), filepath.Join(dir, "a.jpg"), false, nil)
	if err == nil {
		t.Fatal("want error when root is a file")
	}
}

func TestDiscover_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.jpg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Discover(ctx, dir, false, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("cancelled walk should collect nothing, got %d files", len(res.Files))
	}
}

// --- Sort tests ---

func TestSortRecords_UndatedFirstThenChronological(t *testing.T) {
	recs := []metadata.Record{
		{Path: "d.jpg", Timestamp: tsPtr(5)},
		{Path: "c.jpg"},
		{Path: "b.jpg", Timestamp: tsPtr(2)},
		{Path: "a.jpg"},
	}
	sortRecords(recs)

	want := []string{"a.jpg", "c.jpg", "b.jpg", "d.jpg"}
	for i, w := range want {
		if recs[i].Path != w {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, recs[i].Path, w, paths(recs))
		}
	}
}

func TestSortRecords_TimestampTieUsesPath(t *testing.T) {
	recs := []metadata.Record{
		{Path: "z.jpg", Timestamp: tsPtr(7)},
		{Path: "a.jpg", Timestamp: tsPtr(7)},
	}
	sortRecords(recs)
	if recs[0].Path != "a.jpg" {
		t.Errorf("tied timestamps should fall back to path order, got %v", paths(recs))
	}
}

// --- Worker pool tests ---

func TestWorkerCount(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Workers = 4
	if got := workerCount(&cfg, 100); got != 4 {
		t.Errorf("explicit: got %d, want 4", got)
	}
	cfg.Workers = 8
	if got := workerCount(&cfg, 3); got != 3 {
		t.Errorf("capped by files: got %d, want 3", got)
	}
	cfg.Workers = 2
	if got := workerCount(&cfg, 0); got != 1 {
		t.Errorf("zero files: got %d, want 1", got)
	}
	cfg.Workers = 0
	if got := workerCount(&cfg, 1<<20); got != runtime.NumCPU() {
		t.Errorf("auto: got %d, want NumCPU %d", got, runtime.NumCPU())
	}
}

func TestExtractAll_IsolatesPerFileFailures(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, dir, "one.jpg", []byte("not a real jpeg"))
	writeBytes(t, dir, "two.jpg", []byte("also not a jpeg"))

	cfg := config.DefaultConfig()
	cfg.Engine = config.EngineGoexif
	cfg.Workers = 2
	log := newTestLogger(t)

	files := []string{
		filepath.Join(dir, "one.jpg"),
		filepath.Join(dir, "two.jpg"),
		filepath.Join(dir, "missing.jpg"),
	}
	records, counts, err := extractAll(context.Background(), &cfg, log, files, nil)
	if err != nil {
		t.Fatalf("extractAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if counts.noLocation != 2 {
		t.Errorf("noLocation: got %d, want 2", counts.noLocation)
	}
	if counts.failed != 1 {
		t.Errorf("failed: got %d, want 1", counts.failed)
	}
}

// --- RunStats tests ---

func TestRunStats_LocatedShare(t *testing.T) {
	s := RunStats{Discovered: 4, Located: 3}
	if got := s.LocatedShare(); got != 75.0 {
		t.Errorf("LocatedShare: got %v, want 75.0", got)
	}

	var zero RunStats
	if got := zero.LocatedShare(); got != 0 {
		t.Errorf("LocatedShare on empty stats: got %v, want 0", got)
	}
}

// --- Outlier tests ---

func TestComputeStats_TooFewValues(t *testing.T) {
	if b := computeStats([]float64{1, 2, 3}); b.valid {
		t.Error("three values should not produce valid bounds")
	}
}

func TestClassify_NegativeCoordinates(t *testing.T) {
	vals := []float64{-33.1, -33.2, -33.3, -33.4, -33.5, -33.6}
	b := computeStats(vals)
	if !b.valid {
		t.Fatal("expected valid bounds")
	}
	if got := b.classify(-33.3); got != "" {
		t.Errorf("in-cluster value flagged %q", got)
	}
	if got := b.classify(40.0); got != "extreme" {
		t.Errorf("distant value: got %q, want extreme", got)
	}
}

func TestPercentile_Interpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := percentile(sorted, 50); got != 2.5 {
		t.Errorf("p50: got %v, want 2.5", got)
	}
	if got := percentile(sorted, 0); got != 1 {
		t.Errorf("p0: got %v, want 1", got)
	}
	if got := percentile(sorted, 100); got != 4 {
		t.Errorf("p100: got %v, want 4", got)
	}
}

func TestWorstFlag(t *testing.T) {
	if got := worstFlag("", ""); got != "" {
		t.Errorf("clean: got %q", got)
	}
	if got := worstFlag("outlier", ""); got != "outlier" {
		t.Errorf("single outlier: got %q", got)
	}
	if got := worstFlag("outlier", "extreme"); got != "extreme" {
		t.Errorf("extreme wins: got %q", got)
	}
}

func TestFlagOutliers_DistantPoint(t *testing.T) {
	log := newTestLogger(t)
	recs := []metadata.Record{
		{Latitude: 40.01, Longitude: -74.01, Path: "a.jpg"},
		{Latitude: 40.02, Longitude: -74.02, Path: "b.jpg"},
		{Latitude: 40.03, Longitude: -74.03, Path: "c.jpg"},
		{Latitude: 40.04, Longitude: -74.04, Path: "d.jpg"},
		{Latitude: 40.05, Longitude: -74.05, Path: "e.jpg"},
		{Latitude: -33.87, Longitude: 151.21, Path: "sydney.jpg"},
	}
	if got := flagOutliers(log, recs); got != 1 {
		t.Errorf("flagged %d records, want 1", got)
	}
}

func TestFlagOutliers_TooFewRecords(t *testing.T) {
	log := newTestLogger(t)
	recs := []metadata.Record{
		{Latitude: 1, Longitude: 1, Path: "a.jpg"},
		{Latitude: 50, Longitude: 50, Path: "b.jpg"},
	}
	if got := flagOutliers(log, recs); got != 0 {
		t.Errorf("flagged %d records, want 0", got)
	}
}

// --- Run tests ---

func TestRun_EmptyFolder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InputDir = t.TempDir()
	cfg.Engine = config.EngineGoexif
	cfg.ColorMode = config.ColorNever
	log := newTestLogger(t)

	stats, err := Run(context.Background(), &cfg, log)
	if !errors.Is(err, ErrNoPhotos) {
		t.Fatalf("err = %v, want ErrNoPhotos", err)
	}
	if stats.Discovered != 0 {
		t.Errorf("Discovered: got %d, want 0", stats.Discovered)
	}
}

func TestRun_NoGPSPhotosStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, dir, "a.jpg", []byte("x"))
	writeBytes(t, dir, "b.jpg", []byte("y"))

	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	cfg.Engine = config.EngineGoexif
	cfg.Workers = 2
	cfg.ColorMode = config.ColorNever
	log := newTestLogger(t)

	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Discovered != 2 || stats.NoLocation != 2 || stats.Located != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "photo_locations.csv")); !os.IsNotExist(err) {
		t.Error("no artifacts should be written when nothing was located")
	}
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	writeBytes(t, dir, name, []byte{})
}

func writeBytes(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func tsPtr(v int64) *int64 {
	return &v
}

func paths(recs []metadata.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Path
	}
	return out
}

func basenames(files []string) []string {
	out := make([]string, len(files))
	for i, p := range files {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}
