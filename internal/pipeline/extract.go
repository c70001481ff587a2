package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
	"github.com/lzcapp/PhotoGPSExtractor/internal/display"
	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

// extractCounts splits per-file outcomes for the run summary.
type extractCounts struct {
	located    int
	noLocation int
	failed     int
}

// workerCount resolves the extraction pool size. Zero means one worker per
// CPU; the pool never exceeds the file count.
func workerCount(cfg *config.Config, files int) int {
	n := cfg.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

// extractAll fans the discovered files out over a fixed worker pool. Each
// worker owns its own extractor because the exiftool engine wraps a
// subprocess that is not safe for concurrent use. Files without GPS data
// and files that fail to parse are counted and logged at debug level but
// never abort the batch; only extractor construction is fatal.
func extractAll(ctx context.Context, cfg *config.Config, log *logging.Logger, files []string, tracker *display.Tracker) ([]metadata.Record, extractCounts, error) {
	workers := workerCount(cfg, len(files))

	extractors := make([]*metadata.Extractor, 0, workers)
	for i := 0; i < workers; i++ {
		ex, err := metadata.NewExtractor(cfg)
		if err != nil {
			for _, open := range extractors {
				open.Close()
			}
			return nil, extractCounts{}, err
		}
		extractors = append(extractors, ex)
	}
	defer func() {
		for _, ex := range extractors {
			ex.Close()
		}
	}()

	jobs := make(chan string, workers)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		records []metadata.Record
		counts  extractCounts
	)

	for _, ex := range extractors {
		wg.Add(1)
		go func(ex *metadata.Extractor) {
			defer wg.Done()
			for path := range jobs {
				rec, err := ex.Extract(path)
				switch {
				case err == nil:
					mu.Lock()
					records = append(records, rec)
					counts.located++
					mu.Unlock()
				case errors.Is(err, metadata.ErrNoLocation) || errors.Is(err, metadata.ErrNoMetadata):
					mu.Lock()
					counts.noLocation++
					mu.Unlock()
					log.Debug(cfg.Verbose, "No GPS data: %s", path)
				default:
					mu.Lock()
					counts.failed++
					mu.Unlock()
					log.Debug(cfg.Verbose, "Extract failed: %s: %v", path, err)
				}
				if tracker != nil {
					tracker.Add(1)
				}
			}
		}(ex)
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	sortRecords(records)
	return records, counts, nil
}

// sortRecords orders records by capture time, oldest first. Records without
// a timestamp sort ahead of dated ones. Workers finish in arbitrary order,
// so ties fall back to the path, which restores the lexicographic discovery
// order and keeps every export deterministic.
func sortRecords(records []metadata.Record) {
	sort.Slice(records, func(i, j int) bool {
		ti, tj := records[i].Timestamp, records[j].Timestamp
		if (ti == nil) != (tj == nil) {
			return ti == nil
		}
		if ti != nil && *ti != *tj {
			return *ti < *tj
		}
		return records[i].Path < records[j].Path
	})
}
