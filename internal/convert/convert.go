// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns resume sources (DOCX documents and plain-text
// drafts) into PDF files with pluggable backends. Conversion runs in a
// scratch directory and the result replaces the previous PDF only after it
// validates, so a failed conversion never destroys an existing PDF or the
// source document.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-publisher/internal/fileutil"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

const pdfExt = ".pdf"

// ErrNoSources is returned when a source directory holds nothing to convert.
var ErrNoSources = errors.New("no source documents found")

// Converter transforms the document at srcPath into a PDF inside outDir and
// returns the PDF's path. Implementations must not modify srcPath.
type Converter interface {
	Convert(ctx context.Context, srcPath, outDir string) (string, error)
}

// Validator checks a produced PDF. A nil Validator accepts everything.
type Validator func(pdfPath string) error

// Options controls a conversion run.
type Options struct {
	// Force converts even when the PDF is newer than its source.
	Force bool

	// Validate, if set, is applied to every produced PDF before it replaces
	// the previous one.
	Validate Validator
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Outputs   []string
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any source failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns where the PDF for src lands in outDir.
func OutputPath(src types.ResumeFile, outDir string) string {
	return filepath.Join(outDir, src.Stem+pdfExt)
}

// ConvertFile converts one source into outDir and returns its status and the
// PDF path. A PDF at least as new as the source is skipped unless opts.Force
// is set.
func ConvertFile(ctx context.Context, c Converter, src types.ResumeFile, outDir string, opts Options, w io.Writer) (types.FileStatus, string) {
	pdfPath := OutputPath(src, outDir)

	if !opts.Force && upToDate(src.Path, pdfPath) {
		fmt.Fprintf(w, "skipped:   %s (up to date)\n", src.Name())
		return types.StatusSkipped, pdfPath
	}

	if err := convertInto(ctx, c, src, pdfPath, opts.Validate); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", src.Name(), err)
		return types.StatusFailed, ""
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", src.Name(), filepath.Base(pdfPath))
	return types.StatusDone, pdfPath
}

// ConvertBatch converts every path in srcPaths, printing per-file status to
// w and returning a summary.
func ConvertBatch(ctx context.Context, c Converter, srcPaths []string, outDir string, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range srcPaths {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", filepath.Base(p), ctx.Err())
			result.Failed++
			continue
		}
		status, out := ConvertFile(ctx, c, types.NewResumeFile(p), outDir, opts, w)
		switch status {
		case types.StatusDone:
			result.Converted++
			result.Outputs = append(result.Outputs, out)
		case types.StatusSkipped:
			result.Skipped++
			result.Outputs = append(result.Outputs, out)
		case types.StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nConversion summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertDir converts every file in srcDir matching pattern into outDir. It
// returns ErrNoSources when nothing matches.
func ConvertDir(ctx context.Context, c Converter, srcDir, pattern string, caseSensitive bool, outDir string, opts Options, w io.Writer) (BatchResult, error) {
	paths, err := fileutil.Match(srcDir, pattern, caseSensitive)
	if err != nil {
		return BatchResult{}, err
	}
	// Office lock files (~$Resume.docx) are never real sources.
	paths = dropLockFiles(paths)
	if len(paths) == 0 {
		return BatchResult{}, fmt.Errorf("%s in %s: %w", pattern, srcDir, ErrNoSources)
	}
	return ConvertBatch(ctx, c, paths, outDir, opts, w), nil
}

// convertInto runs c in a scratch directory beside pdfPath, validates the
// output, and moves it into place.
func convertInto(ctx context.Context, c Converter, src types.ResumeFile, pdfPath string, validate Validator) error {
	outDir := filepath.Dir(pdfPath)
	scratch, err := os.MkdirTemp(outDir, ".convert-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	produced, err := c.Convert(ctx, src.Path, scratch)
	if err != nil {
		return err
	}
	info, err := os.Stat(produced)
	if err != nil {
		return fmt.Errorf("converter output missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("converter produced an empty file")
	}
	if validate != nil {
		if err := validate(produced); err != nil {
			return fmt.Errorf("invalid PDF output: %w", err)
		}
	}

	if err := os.Rename(produced, pdfPath); err != nil {
		return fmt.Errorf("moving %s into place: %w", filepath.Base(pdfPath), err)
	}
	return nil
}

// upToDate reports whether dst exists and is not older than src.
func upToDate(src, dst string) bool {
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return !di.ModTime().Before(si.ModTime())
}

func dropLockFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		if strings.HasPrefix(filepath.Base(p), "~$") {
			continue
		}
		out = append(out, p)
	}
	return out
}
