package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lzcapp/PhotoGPSExtractor/internal/config"
)

// goexifExts are the formats the in-process parser handles natively.
// Everything else goes to exiftool when a subprocess is attached.
var goexifExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// Extractor resolves photo files into Records. Each worker goroutine owns
// its own Extractor: the exiftool subprocess behind it is not safe for
// concurrent use.
type Extractor struct {
	engine   config.EngineMode
	exiftool *exiftoolEngine // nil when unavailable or not wanted
}

// NewExtractor builds an extractor for the configured engine. With
// EngineExiftool a failure to start the subprocess is returned; with
// EngineAuto it degrades to the in-process parser and leaves the warning to
// the caller.
func NewExtractor(cfg *config.Config) (*Extractor, error) {
	ex := &Extractor{engine: cfg.Engine}
	switch cfg.Engine {
	case config.EngineGoexif:
		// nothing to start
	case config.EngineExiftool:
		et, err := newExiftoolEngine(cfg.ExiftoolPath)
		if err != nil {
			return nil, err
		}
		ex.exiftool = et
	case config.EngineAuto:
		if et, err := newExiftoolEngine(cfg.ExiftoolPath); err == nil {
			ex.exiftool = et
		}
	}
	return ex, nil
}

// HasExiftool reports whether an exiftool subprocess is attached.
func (e *Extractor) HasExiftool() bool {
	return e.exiftool != nil
}

// Close stops the exiftool subprocess if one was started.
func (e *Extractor) Close() error {
	if e.exiftool != nil {
		return e.exiftool.Close()
	}
	return nil
}

// Extract reads path and returns its location record. Failures never escape
// as panics: a crashing tag parser is converted into an error so one corrupt
// file cannot take down a worker.
func (e *Extractor) Extract(path string) (rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("metadata parser panicked on %s: %v", filepath.Base(path), r)
		}
	}()
	tags, err := e.readTags(path)
	if err != nil {
		return Record{}, err
	}
	return BuildRecord(path, tags)
}

func (e *Extractor) readTags(path string) (TagSet, error) {
	if e.useGoexif(path) {
		return goexifTags(path)
	}
	return e.exiftool.ExtractTags(path)
}

// useGoexif picks the engine for one file. Forced modes always win; auto
// mode keeps JPEG/TIFF on the in-process parser and sends the rest to
// exiftool, falling back to goexif when no subprocess is attached (TIFF-based
// raw formats often parse anyway).
func (e *Extractor) useGoexif(path string) bool {
	switch e.engine {
	case config.EngineGoexif:
		return true
	case config.EngineExiftool:
		return false
	}
	if goexifExts[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return e.exiftool == nil
}
