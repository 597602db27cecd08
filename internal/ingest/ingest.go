// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest walks a folder of ARGOS files and appends one point
// feature per record to an output sink, tallying coordinate failures per
// file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/argos-import/internal/argos"
	"github.com/pdiddy/argos-import/pkg/types"
)

// Sink receives features. featureclass.Cursor implements it.
type Sink interface {
	// InsertRow appends a feature whose geometry is in EPSG:4326.
	InsertRow(ctx context.Context, f types.Feature) error

	// Flush commits rows inserted since the last flush and returns their count.
	Flush(ctx context.Context) (int, error)
}

// FileResult holds the outcome of importing one file.
type FileResult struct {
	Name string `json:"name" yaml:"name"`

	// Records is the number of header/location pairs found.
	Records int `json:"records" yaml:"records"`

	// Errors is the number of records whose coordinates failed to convert.
	Errors int `json:"errors" yaml:"errors"`

	// Filtered is the number of records dropped by the location-class filter.
	Filtered int `json:"filtered" yaml:"filtered"`

	// Inserted is the number of rows written to the sink.
	Inserted int `json:"inserted" yaml:"inserted"`
}

// ErrorRate returns Errors as a percentage of Records, or 0 when the file
// has no records.
func (r FileResult) ErrorRate() float64 {
	if r.Records == 0 {
		return 0
	}
	return float64(r.Errors) / float64(r.Records) * 100
}

// RunResult holds the outcome of importing a folder.
type RunResult struct {
	Files   []FileResult `json:"files" yaml:"files"`
	Skipped int          `json:"skipped" yaml:"skipped"`
}

// Records returns the number of records across all files.
func (r RunResult) Records() int {
	n := 0
	for _, f := range r.Files {
		n += f.Records
	}
	return n
}

// Errors returns the number of coordinate failures across all files.
func (r RunResult) Errors() int {
	n := 0
	for _, f := range r.Files {
		n += f.Errors
	}
	return n
}

// Inserted returns the number of rows written across all files.
func (r RunResult) Inserted() int {
	n := 0
	for _, f := range r.Files {
		n += f.Inserted
	}
	return n
}

// Importer converts ARGOS files into features.
type Importer struct {
	cfg    types.ImportConfig
	sink   Sink
	log    logrus.FieldLogger
	accept map[string]bool

	// last is the most recent successfully converted point of the run that
	// passed the location-class filter, reused by the InvalidReuse policy.
	// It carries across files.
	last *types.Point
}

// New returns an Importer writing to sink. Empty config fields take their
// defaults: SkipFile is README.txt and OnInvalid is InvalidReuse.
func New(cfg types.ImportConfig, sink Sink, log logrus.FieldLogger) *Importer {
	if cfg.SkipFile == "" {
		cfg.SkipFile = types.DefaultSkipFile
	}
	if cfg.OnInvalid == "" {
		cfg.OnInvalid = types.InvalidReuse
	}
	var accept map[string]bool
	if len(cfg.LocationClasses) > 0 {
		accept = make(map[string]bool, len(cfg.LocationClasses))
		for _, lc := range cfg.LocationClasses {
			accept[lc] = true
		}
	}
	return &Importer{cfg: cfg, sink: sink, log: log, accept: accept}
}

// Run imports every file in dir in directory-listing order. The skip file
// and subdirectories are counted as skipped and never opened. Any read or
// format error stops the run; rows from files already processed stay
// committed.
func (im *Importer) Run(ctx context.Context, dir string) (RunResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return RunResult{}, fmt.Errorf("reading input folder %s: %w", dir, err)
	}

	var result RunResult
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if entry.Name() == im.cfg.SkipFile || entry.IsDir() {
			im.log.WithField("file", entry.Name()).Debug("skipping")
			result.Skipped++
			continue
		}

		fr, err := im.ImportFile(ctx, filepath.Join(dir, entry.Name()))
		result.Files = append(result.Files, fr)
		if err != nil {
			return result, err
		}
	}

	im.log.WithFields(logrus.Fields{
		"files":    len(result.Files),
		"skipped":  result.Skipped,
		"records":  result.Records(),
		"errors":   result.Errors(),
		"inserted": result.Inserted(),
	}).Info("Import complete")

	return result, nil
}

// ImportFile imports one file and reports its error rate.
func (im *Importer) ImportFile(ctx context.Context, path string) (FileResult, error) {
	name := filepath.Base(path)
	im.log.Infof("Processing %s", name)

	f, err := os.Open(path)
	if err != nil {
		return FileResult{Name: name}, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	fr, err := im.ImportReader(ctx, f, name)
	if err != nil {
		return fr, err
	}
	im.report(fr)
	return fr, nil
}

// ImportReader imports the records in r. Rows are flushed to the sink
// before returning, including when a fatal format error stops the file.
func (im *Importer) ImportReader(ctx context.Context, r io.Reader, name string) (FileResult, error) {
	fr := FileResult{Name: name}
	rd := argos.NewReader(r, name)

	var runErr error
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = err
			break
		}
		fr.Records++

		if err := im.importRecord(ctx, rec, name, &fr); err != nil {
			runErr = err
			break
		}
	}

	if _, err := im.sink.Flush(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return fr, runErr
}

func (im *Importer) importRecord(ctx context.Context, rec types.Record, name string, fr *FileResult) error {
	tagID, err := strconv.ParseInt(rec.TagID, 10, 64)
	if err != nil {
		return fmt.Errorf("%s:%d: tag ID %q is not an integer: %w", name, rec.Line, rec.TagID, err)
	}

	pos, convErr := argos.Position(rec)
	if convErr != nil {
		fr.Errors++
		im.log.WithFields(logrus.Fields{
			"file": name, "line": rec.Line, "tag": rec.TagID,
		}).Debugf("coordinate conversion failed: %v", convErr)
	}

	// Filtered records never become the reuse point.
	if im.accept != nil && !im.accept[rec.LocationClass] {
		fr.Filtered++
		return nil
	}

	var geom *types.Point
	if convErr == nil {
		im.last = &pos
		geom = &pos
	} else {
		switch im.cfg.OnInvalid {
		case types.InvalidSkip:
			return nil
		case types.InvalidNull:
			// Inserted with an empty point.
		default:
			if im.last != nil {
				p := *im.last
				geom = &p
			}
		}
	}

	f := types.Feature{
		Geometry: geom,
		TagID:    tagID,
		LC:       rec.LocationClass,
		Date:     rec.DateString(),
	}
	if err := im.sink.InsertRow(ctx, f); err != nil {
		return fmt.Errorf("%s:%d: %w", name, rec.Line, err)
	}
	fr.Inserted++
	return nil
}

func (im *Importer) report(fr FileResult) {
	entry := im.log.WithField("file", fr.Name)
	if fr.Records == 0 {
		entry.Warnf("no records found in %s: %.2f%%", fr.Name, 0.0)
		return
	}
	entry.Warnf("%d records were skipped: %.2f%%", fr.Errors, fr.ErrorRate())
}
