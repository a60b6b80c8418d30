// Package app contains the core application logic for the wisatarec CLI
// tool. It handles engine acquisition and dataset ingestion separated from
// CLI concerns.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/recommender"
	"github.com/aditsuu/wisatarec/internal/source"
	"github.com/aditsuu/wisatarec/internal/spinner"
	"github.com/aditsuu/wisatarec/internal/textnorm"
)

// DataFormat identifies the dataset wire format.
type DataFormat int

const (
	// CSV dataset format (default)
	CSV DataFormat = iota
	// JSON dataset format
	JSON
)

// String returns the string representation of the format
func (f DataFormat) String() string {
	switch f {
	case CSV:
		return "CSV"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// ParseFormat maps a format flag value to a DataFormat.
func ParseFormat(s string) (DataFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return CSV, fmt.Errorf("unknown data format %q (want csv or json)", s)
	}
}

// Config holds all configuration options for the wisatarec application.
type Config struct {
	DataSource   string               // URL, file path, or "-" for stdin
	DataFormat   DataFormat           // dataset wire format
	SnapshotPath string               // fitted-state snapshot location
	Stemmer      textnorm.StemmerKind // stemmer used at fit time
	Quiet        bool                 // suppress info messages
	Debug        bool
}

// Ingest reads and decodes the configured dataset source.
//
// ctx allows for cancellation of remote fetches.
func Ingest(ctx context.Context, cfg Config) ([]dataset.Attraction, error) {
	if cfg.DataSource == "" {
		return nil, fmt.Errorf("no data source provided")
	}

	reader, err := source.Open(ctx, cfg.DataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source: %w", err)
	}
	defer reader.Close()

	var rows []dataset.Attraction
	switch cfg.DataFormat {
	case JSON:
		rows, err = dataset.LoadJSON(reader)
	default:
		rows, err = dataset.LoadCSV(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no records in data source")
	}

	slog.Debug("dataset loaded", "source", cfg.DataSource, "records", len(rows))
	return rows, nil
}

// Fit ingests the configured data source and fits a fresh engine from it,
// showing a progress spinner while the index builds.
func Fit(ctx context.Context, cfg Config) (*recommender.Engine, error) {
	rows, err := Ingest(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// display spinner for longer operations
	var sp *spinner.Spinner
	if !cfg.Quiet {
		sp = spinner.New(ctx, os.Stderr, "Building recommendation index...")
		sp.Start()
		defer sp.Stop()
	}

	eng := recommender.New(recommender.Config{Stemmer: cfg.Stemmer})
	if err := eng.Fit(rows); err != nil {
		return nil, fmt.Errorf("failed to fit engine: %w", err)
	}
	return eng, nil
}

// AcquireEngine returns a ready engine. It first tries the snapshot; a
// missing snapshot falls through silently, any other load failure is warned
// and also falls through. The fallback fits from the data source. When
// neither path yields a ready engine the error names both.
func AcquireEngine(ctx context.Context, cfg Config) (*recommender.Engine, error) {
	var loadErr error
	if cfg.SnapshotPath != "" {
		eng := recommender.New(recommender.Config{Stemmer: cfg.Stemmer})
		loadErr = eng.Load(cfg.SnapshotPath)
		if loadErr == nil {
			slog.Debug("snapshot loaded", "path", cfg.SnapshotPath)
			return eng, nil
		}
		if !errors.Is(loadErr, recommender.ErrSnapshotNotFound) && !cfg.Quiet {
			fmt.Fprintf(os.Stderr, "Warning: failed to load snapshot %q: %v\n", cfg.SnapshotPath, loadErr)
		}
	}

	if cfg.DataSource == "" {
		if loadErr != nil {
			return nil, fmt.Errorf("no usable snapshot at %q (%v) and no data source to fit from; run fit first or pass --data", cfg.SnapshotPath, loadErr)
		}
		return nil, fmt.Errorf("no snapshot path and no data source provided; run fit first or pass --data")
	}

	eng, fitErr := Fit(ctx, cfg)
	if fitErr != nil {
		if loadErr != nil {
			return nil, fmt.Errorf("snapshot load failed (%v) and fallback fit failed: %w", loadErr, fitErr)
		}
		return nil, fitErr
	}
	return eng, nil
}
