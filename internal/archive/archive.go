// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive moves published resume files into the archive directory
// under timestamped names. Every file archived by one run shares the same
// timestamp suffix, and an original is removed only after its copy is
// complete.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/resume-publisher/internal/clock"
	"github.com/pdiddy/resume-publisher/internal/fileutil"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

// ErrNoFiles is returned when nothing in the published directory matches.
var ErrNoFiles = errors.New("no files found")

// ErrArchiveDirMissing is returned when the archive directory does not
// exist. The archiver never creates it; configuration resolution does.
var ErrArchiveDirMissing = errors.New("archive directory does not exist")

// Stamper renders the current time. *clock.Clock implements it.
type Stamper interface {
	Now(zone clock.Zone, format clock.Format) (string, error)
}

// Recorder persists the records of an archive run.
type Recorder interface {
	Record(ctx context.Context, records []types.ArchiveRecord) error
}

// Options selects what to archive and where.
type Options struct {
	// PublishedDir is scanned for files matching Pattern.
	PublishedDir string

	// ArchiveDir receives the timestamped copies. It must exist.
	ArchiveDir string

	// Pattern is a filepath.Match glob applied to base names.
	Pattern string

	// CaseSensitive controls pattern matching.
	CaseSensitive bool

	// Recorder, if set, receives the records of archived files.
	Recorder Recorder
}

// Result holds the outcome of an archive run.
type Result struct {
	BatchID   string
	Timestamp string
	Archived  int
	Failed    int
	Records   []types.ArchiveRecord
}

// Total returns the number of matched files.
func (r Result) Total() int {
	return r.Archived + r.Failed
}

// HasFailures reports whether any file failed to archive.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// DestinationName returns the archived name for f: stem, timestamp, extension.
func DestinationName(f types.ResumeFile, timestamp string) string {
	return f.Stem + timestamp + f.Ext
}

// Archive copies every file in opts.PublishedDir matching opts.Pattern into
// opts.ArchiveDir as {stem}{timestamp}{ext}, where timestamp is the ARCHIVE
// format in the local zone, computed once for the whole run. Each original is
// deleted only after its copy succeeds; a failed copy leaves the original in
// place and the run continues with the next file. Per-file status is written
// to w.
//
// It returns ErrNoFiles when nothing matches, and a non-nil error when any
// file failed.
func Archive(ctx context.Context, stamp Stamper, opts Options, w io.Writer) (Result, error) {
	info, err := os.Stat(opts.ArchiveDir)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("%s: %w", opts.ArchiveDir, ErrArchiveDirMissing)
	}

	paths, err := fileutil.Match(opts.PublishedDir, opts.Pattern, opts.CaseSensitive)
	if err != nil {
		return Result{}, err
	}
	if len(paths) == 0 {
		return Result{}, fmt.Errorf("%s in %s: %w", opts.Pattern, opts.PublishedDir, ErrNoFiles)
	}

	timestamp, err := stamp.Now(clock.Local, clock.Archive)
	if err != nil {
		return Result{}, fmt.Errorf("computing archive timestamp: %w", err)
	}

	result := Result{
		BatchID:   uuid.NewString(),
		Timestamp: timestamp,
	}

	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}

		f := types.NewResumeFile(p)
		rec, copied, err := archiveFile(ctx, f, opts.ArchiveDir, timestamp)
		if copied {
			// The copy exists on disk, so it is recorded even when the
			// original could not be removed.
			rec.BatchID = result.BatchID
			result.Records = append(result.Records, rec)
		}
		switch {
		case err != nil && copied:
			fmt.Fprintf(w, "failed:   %s (copied to %s, original kept: %v)\n",
				f.Name(), filepath.Base(rec.ArchivePath), err)
			result.Failed++
		case err != nil:
			fmt.Fprintf(w, "failed:   %s (%v)\n", f.Name(), err)
			result.Failed++
		default:
			fmt.Fprintf(w, "archived: %s -> %s\n", f.Name(), filepath.Base(rec.ArchivePath))
			result.Archived++
		}
	}

	fmt.Fprintf(w, "\nArchive summary: %d archived, %d failed (total: %d)\n",
		result.Archived, result.Failed, result.Total())

	if opts.Recorder != nil && len(result.Records) > 0 {
		// Files already moved are recorded even when the run was interrupted.
		if err := opts.Recorder.Record(context.WithoutCancel(ctx), result.Records); err != nil {
			fmt.Fprintf(w, "warning: recording archive batch failed: %v\n", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("archive interrupted after %d file(s): %w", result.Total(), err)
	}
	if result.HasFailures() {
		return result, fmt.Errorf("%d file(s) failed archiving", result.Failed)
	}
	return result, nil
}

// removeFile deletes an original after its copy is complete.
var removeFile = os.Remove

// archiveFile copies f into dir under its timestamped name and removes the
// original once the copy is complete. copied reports whether the archived
// copy exists, which stays true when only the removal failed.
func archiveFile(ctx context.Context, f types.ResumeFile, dir, timestamp string) (rec types.ArchiveRecord, copied bool, err error) {
	dst := filepath.Join(dir, DestinationName(f, timestamp))

	res, err := fileutil.CopyFile(ctx, f.Path, dst, false)
	if err != nil {
		return types.ArchiveRecord{}, false, err
	}

	rec = types.ArchiveRecord{
		Timestamp:   timestamp,
		SourcePath:  f.Path,
		ArchivePath: dst,
		Size:        res.Size,
		SHA256:      res.SHA256,
		ModTime:     res.Info.ModTime(),
		ArchivedAt:  time.Now(),
	}

	if err := removeFile(f.Path); err != nil {
		return rec, true, fmt.Errorf("removing original after copy: %w", err)
	}
	return rec, true, nil
}
