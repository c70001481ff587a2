package pipeline

import "time"

// RunStats tracks aggregate counters and phase timings across one pipeline
// run.
type RunStats struct {
	Discovered   int   // regular files handed to extraction
	Located      int   // files that produced a GPS record
	NoLocation   int   // files without usable GPS metadata
	Failed       int   // files that errored during extraction
	SkippedDirs  int   // unreadable directories passed over
	TotalBytes   int64 // combined size of discovered files
	UniquePoints int   // distinct rounded positions in the geographic view

	DiscoverTime time.Duration
	ExtractTime  time.Duration
	ExportTime   time.Duration
	Elapsed      time.Duration
}

// LocatedShare returns the percentage of discovered files that produced a
// record. Zero discoveries yield zero rather than dividing.
func (s *RunStats) LocatedShare() float64 {
	if s.Discovered == 0 {
		return 0
	}
	return float64(s.Located) * 100 / float64(s.Discovered)
}
