// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish runs the full publication pipeline: convert the DOCX
// sources, archive the PDFs that are currently published, and copy the fresh
// PDFs into the published directory.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/resume-publisher/internal/archive"
	"github.com/pdiddy/resume-publisher/internal/config"
	"github.com/pdiddy/resume-publisher/internal/convert"
	"github.com/pdiddy/resume-publisher/internal/fileutil"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

// ErrNothingToPublish is returned when the PDF directory holds no file
// matching the resume pattern after conversion.
var ErrNothingToPublish = errors.New("no PDFs to publish")

// Options configures a publication run.
type Options struct {
	Dirs      config.DirectorySet
	Patterns  types.PatternConfig
	Converter convert.Converter
	Convert   convert.Options

	// Recorder, if set, receives the archive batch.
	Recorder archive.Recorder
}

// Result holds the outcome of each stage.
type Result struct {
	Conversion convert.BatchResult
	Archive    archive.Result
	Published  []string
	Failed     int
}

// HasFailures reports whether any stage left a file unprocessed.
func (r Result) HasFailures() bool {
	return r.Conversion.HasFailures() || r.Archive.HasFailures() || r.Failed > 0
}

// Run converts, archives, and publishes. Conversion runs first and a failed
// conversion stops the run before anything in the published directory is
// touched. An empty published directory is not an error here: the first
// publication has nothing to archive.
func Run(ctx context.Context, stamp archive.Stamper, opts Options, w io.Writer) (Result, error) {
	var result Result

	fmt.Fprintf(w, "== convert %s -> %s\n", opts.Dirs.Docx, opts.Dirs.PDF)
	conv, err := convert.ConvertDir(ctx, opts.Converter, opts.Dirs.Docx, opts.Patterns.Docx,
		opts.Patterns.CaseSensitive, opts.Dirs.PDF, opts.Convert, w)
	switch {
	case errors.Is(err, convert.ErrNoSources):
		fmt.Fprintf(w, "warning: %v\n", err)
	case err != nil:
		return result, fmt.Errorf("converting: %w", err)
	}
	result.Conversion = conv
	if conv.HasFailures() {
		return result, fmt.Errorf("%d document(s) failed conversion; published files left unchanged", conv.Failed)
	}

	pdfs, err := fileutil.Match(opts.Dirs.PDF, opts.Patterns.Resume, opts.Patterns.CaseSensitive)
	if err != nil {
		return result, err
	}
	if len(pdfs) == 0 {
		return result, fmt.Errorf("%s in %s: %w", opts.Patterns.Resume, opts.Dirs.PDF, ErrNothingToPublish)
	}

	fmt.Fprintf(w, "\n== archive %s -> %s\n", opts.Dirs.Published, opts.Dirs.Archive)
	arch, err := archive.Archive(ctx, stamp, archive.Options{
		PublishedDir:  opts.Dirs.Published,
		ArchiveDir:    opts.Dirs.Archive,
		Pattern:       opts.Patterns.Resume,
		CaseSensitive: opts.Patterns.CaseSensitive,
		Recorder:      opts.Recorder,
	}, w)
	result.Archive = arch
	switch {
	case errors.Is(err, archive.ErrNoFiles):
		fmt.Fprintf(w, "warning: nothing to archive (%v)\n", err)
	case err != nil:
		return result, fmt.Errorf("archiving: %w", err)
	}

	fmt.Fprintf(w, "\n== publish %s -> %s\n", opts.Dirs.PDF, opts.Dirs.Published)
	for _, src := range pdfs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := filepath.Base(src)
		dst := filepath.Join(opts.Dirs.Published, name)
		if _, err := fileutil.CopyFile(ctx, src, dst, true); err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "published: %s\n", name)
		result.Published = append(result.Published, dst)
	}

	fmt.Fprintf(w, "\nPublish summary: %d published, %d failed\n", len(result.Published), result.Failed)
	if result.Failed > 0 {
		return result, fmt.Errorf("%d file(s) failed publishing", result.Failed)
	}
	return result, nil
}
