// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the resume-publisher
// pipeline: the resolved configuration, matched resume files, and archive
// records.
package types

// DirConfig holds the root directory and the relative suffixes of every
// working directory. Suffixes may be absolute, in which case they are used
// as-is.
type DirConfig struct {
	// RootDir is the base of every other path (e.g. the OneDrive folder).
	RootDir string `json:"root_dir" yaml:"root_dir"`

	// ResumeDir is the folder under RootDir holding the resume subdirectories
	// (default "resume").
	ResumeDir string `json:"resume_dir" yaml:"resume_dir"`

	// DocxDir, PDFDir, DraftingDir, and PublishedDir are relative to ResumeDir.
	DocxDir      string `json:"docx_dir" yaml:"docx_dir"`
	PDFDir       string `json:"pdf_dir" yaml:"pdf_dir"`
	DraftingDir  string `json:"drafting_dir" yaml:"drafting_dir"`
	PublishedDir string `json:"published_dir" yaml:"published_dir"`

	// ArchiveDir is relative to RootDir (default "archive/resumes"). It is
	// created on demand.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

// PatternConfig holds the glob patterns used to select files.
type PatternConfig struct {
	// Resume selects published and converted PDFs (default "*.pdf").
	Resume string `json:"resume" yaml:"resume"`

	// Docx selects conversion sources in the docx directory (default "*.docx").
	Docx string `json:"docx" yaml:"docx"`

	// Draft selects plain-text drafts in the drafting directory (default "*.txt").
	Draft string `json:"draft" yaml:"draft"`

	// CaseSensitive controls whether patterns match case-sensitively.
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`
}

// TimeConfig holds the time zone override and the strftime-style format
// strings. Empty ShortFormat and TimeFormat are derived from LongFormat.
type TimeConfig struct {
	TimeZone      string `json:"time_zone" yaml:"time_zone"`
	LongFormat    string `json:"long_date_format" yaml:"long_date_format"`
	ArchiveFormat string `json:"archive_date_format" yaml:"archive_date_format"`
	ShortFormat   string `json:"short_date_format,omitempty" yaml:"short_date_format,omitempty"`
	TimeFormat    string `json:"time_format,omitempty" yaml:"time_format,omitempty"`
}

// ConversionBackend identifies the DOCX-to-PDF conversion tool.
type ConversionBackend string

const (
	BackendSoffice   ConversionBackend = "soffice"
	BackendContainer ConversionBackend = "container"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the conversion tool: soffice or container.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// SofficeBin is the LibreOffice binary name or path (default "soffice").
	SofficeBin string `json:"soffice_bin" yaml:"soffice_bin"`

	// ContainerImage is the image used by the container backend. It reads a
	// DOCX on stdin and writes a PDF to stdout.
	ContainerImage string `json:"container_image" yaml:"container_image"`
}

// LedgerConfig holds settings for the archive ledger.
type LedgerConfig struct {
	// Enabled turns ledger recording on or off.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// File is the SQLite database path, relative to RootDir unless absolute.
	File string `json:"file" yaml:"file"`
}

// Config groups every setting of a run. It is built once at startup and
// passed to the components that need it.
type Config struct {
	Dirs       DirConfig        `json:"dirs" yaml:"dirs"`
	Patterns   PatternConfig    `json:"patterns" yaml:"patterns"`
	Time       TimeConfig       `json:"time" yaml:"time"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
}
