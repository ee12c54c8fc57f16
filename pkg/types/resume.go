// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// ResumeFile is a file matched by a directory scan. It has no identity
// beyond its path.
type ResumeFile struct {
	// Path is the absolute or root-relative path of the file.
	Path string `json:"path" yaml:"path"`

	// Stem is the base name without extension (e.g. "Resume").
	Stem string `json:"stem" yaml:"stem"`

	// Ext is the extension including the leading dot (e.g. ".pdf").
	Ext string `json:"ext" yaml:"ext"`
}

// NewResumeFile splits path into stem and extension.
func NewResumeFile(path string) ResumeFile {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return ResumeFile{
		Path: path,
		Stem: strings.TrimSuffix(base, ext),
		Ext:  ext,
	}
}

// Name returns the file's base name.
func (f ResumeFile) Name() string {
	return f.Stem + f.Ext
}

// FileStatus indicates the outcome of processing one file in a batch.
type FileStatus string

const (
	StatusDone    FileStatus = "done"
	StatusSkipped FileStatus = "skipped"
	StatusFailed  FileStatus = "failed"
)

// ArchiveRecord describes one file moved into the archive directory.
type ArchiveRecord struct {
	// BatchID groups every file archived by the same invocation.
	BatchID string `json:"batch_id" yaml:"batch_id"`

	// Timestamp is the archive suffix shared by the batch
	// (e.g. "_20240305__14-30_10").
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// SourcePath is where the file was published before archiving.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// ArchivePath is the timestamped copy in the archive directory.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the hex digest of the archived content.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// ModTime is the preserved modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`

	// ArchivedAt is when the copy completed.
	ArchivedAt time.Time `json:"archived_at" yaml:"archived_at"`
}
