// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives a platform export through extraction and writes the
// standard TSV. Each platform has an Extractor; ConvertSource runs one
// platform and ConvertBatch runs several, printing progress to a writer.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/taxonomy-tsv/internal/tsv"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// ErrInputNotFound is returned when a source's input file does not exist.
var ErrInputNotFound = errors.New("input file does not exist")

// Extraction is the outcome of reading one export.
type Extraction struct {
	Rows []types.Row

	// Skipped counts input records that produced no row and were reported.
	// Tree exports drop malformed nodes silently and always report zero.
	Skipped int
}

// Extractor turns a platform export file into rows. Ozon, yandex, and
// shopify inputs each have an implementation.
type Extractor interface {
	// Extract reads the export at inputPath.
	Extract(inputPath string) (Extraction, error)
}

// Source names one conversion: which platform, where to read, where to write.
type Source struct {
	Platform types.Platform
	Input    string
	Output   string
}

// Result describes a finished conversion.
type Result struct {
	Platform  types.Platform
	Output    string
	Converted int
	Skipped   int
}

// ConvertSource checks that the input exists, extracts its rows, and writes
// them to the output TSV. Progress lines are printed to w.
func ConvertSource(ex Extractor, src Source, w io.Writer) (Result, error) {
	res := Result{Platform: src.Platform, Output: src.Output}

	if _, err := os.Stat(src.Input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("%w: %s", ErrInputNotFound, src.Input)
		}
		return res, fmt.Errorf("checking input %s: %w", src.Input, err)
	}

	fmt.Fprintf(w, "Reading %s...\n", src.Input)

	ext, err := ex.Extract(src.Input)
	if err != nil {
		return res, err
	}
	res.Converted = len(ext.Rows)
	res.Skipped = ext.Skipped

	if ext.Skipped > 0 {
		fmt.Fprintf(w, "Found %d categories (%d lines skipped)\n", res.Converted, res.Skipped)
	} else {
		fmt.Fprintf(w, "Found %d categories\n", res.Converted)
	}

	if err := tsv.WriteFile(src.Output, ext.Rows); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "Written to %s\n", src.Output)
	return res, nil
}

// BatchResult holds the outcome of converting several platforms.
type BatchResult struct {
	Results []Result
	Failed  int
}

// Converted returns the number of platforms converted successfully.
func (r BatchResult) Converted() int {
	return len(r.Results)
}

// HasFailures reports whether any platform failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Job pairs a source with the extractor that reads it.
type Job struct {
	Extractor Extractor
	Source    Source
}

// ConvertBatch converts each job in order. A failing job is reported to w
// and counted; the remaining jobs still run.
func ConvertBatch(jobs []Job, w io.Writer) BatchResult {
	var batch BatchResult
	for i, job := range jobs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		res, err := ConvertSource(job.Extractor, job.Source, w)
		if err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", job.Source.Platform, err)
			batch.Failed++
			continue
		}
		batch.Results = append(batch.Results, res)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "Conversion complete!")
	for _, res := range batch.Results {
		fmt.Fprintf(w, "  %s: %d categories -> %s\n", res.Platform, res.Converted, res.Output)
	}
	if batch.Failed > 0 {
		fmt.Fprintf(w, "  %d platform(s) failed\n", batch.Failed)
	}
	return batch
}
