package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/lzcapp/PhotoGPSExtractor/internal/display"
)

// Supported photo and raw file extensions (lowercase, with leading dot).
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
	".heic": true,
	".heif": true,
	".avif": true,
	".dng":  true,
	".nef":  true,
	".cr2":  true,
	".cr3":  true,
	".arw":  true,
	".orf":  true,
	".rw2":  true,
	".raf":  true,
	".pef":  true,
	".srw":  true,
}

// junkDirs are system and index directories that never hold user photos
// (NAS thumbnail stores, recycle bins). Compared lowercase.
var junkDirs = map[string]bool{
	"@eadir":                    true,
	"#recycle":                  true,
	"$recycle.bin":              true,
	"system volume information": true,
	"lost+found":                true,
}

// DiscoverResult carries the discovered paths plus walk statistics.
type DiscoverResult struct {
	Files       []string
	TotalBytes  int64
	SkippedDirs int // directories that could not be read
}

// Discover enumerates regular files under root in parallel, one goroutine
// per directory with directory reads bounded by a semaphore. Hidden entries,
// junk directories, and symlinks are skipped; an unreadable subtree is
// counted and passed over rather than aborting the scan. Unless allFiles is
// set, only recognized photo extensions (case-insensitive) are collected.
// The result is sorted lexicographically for a deterministic worker feed.
func Discover(ctx context.Context, root string, allFiles bool, tracker *display.Tracker) (DiscoverResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return DiscoverResult{}, fmt.Errorf("cannot access folder: %w", err)
	}
	if !info.IsDir() {
		return DiscoverResult{}, fmt.Errorf("not a directory: %s", root)
	}

	w := &walker{
		ctx:      ctx,
		sem:      make(chan struct{}, runtime.NumCPU()),
		allFiles: allFiles,
		tracker:  tracker,
	}
	w.wg.Add(1)
	go w.walk(root)
	w.wg.Wait()

	sort.Strings(w.files)
	return DiscoverResult{Files: w.files, TotalBytes: w.bytes, SkippedDirs: w.skipped}, nil
}

// walker shares the append-only result set between directory goroutines.
// The semaphore bounds concurrent ReadDir calls; it is released before
// children are spawned so deep trees cannot deadlock the pool.
type walker struct {
	ctx      context.Context
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	files    []string
	bytes    int64
	skipped  int
	allFiles bool
	tracker  *display.Tracker
}

func (w *walker) walk(dir string) {
	defer w.wg.Done()
	if w.ctx.Err() != nil {
		return
	}

	w.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-w.sem
	if err != nil {
		w.mu.Lock()
		w.skipped++
		w.mu.Unlock()
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if skipDir(name) {
				continue
			}
			w.wg.Add(1)
			go w.walk(filepath.Join(dir, name))
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if !w.allFiles && !photoExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		var size int64
		if fi, err := entry.Info(); err == nil {
			size = fi.Size()
		}
		w.mu.Lock()
		w.files = append(w.files, filepath.Join(dir, name))
		w.bytes += size
		w.mu.Unlock()
		if w.tracker != nil {
			w.tracker.Add(1)
		}
	}
}

// skipDir prunes hidden and junk directories.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return junkDirs[strings.ToLower(name)]
}
