// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// Directory names used in diagnostics.
const (
	NameDocx      = "docx"
	NamePDF       = "pdf"
	NameDrafting  = "drafting"
	NamePublished = "published"
	NameArchive   = "archive"
)

// ErrRootNotSet is returned when no root directory is configured.
var ErrRootNotSet = errors.New("root directory not set (set RESUME_ROOT_DIR or OneDrive)")

// RootMissingError reports a configured root directory that does not exist.
type RootMissingError struct {
	Path string
	Err  error
}

func (e *RootMissingError) Error() string {
	return fmt.Sprintf("root directory %s: %v", e.Path, e.Err)
}

func (e *RootMissingError) Unwrap() error { return e.Err }

// NamedDir pairs a directory name with its path.
type NamedDir struct {
	Name string
	Path string
}

// MissingDirsError lists every required directory that does not exist.
type MissingDirsError struct {
	Missing []NamedDir
}

func (e *MissingDirsError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, d := range e.Missing {
		parts[i] = fmt.Sprintf("%s (%s)", d.Name, d.Path)
	}
	return fmt.Sprintf("%d required director%s missing: %s",
		len(e.Missing), plural(len(e.Missing), "y", "ies"), strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// DirectorySet holds the resolved working directories.
type DirectorySet struct {
	Root      string
	Docx      string
	PDF       string
	Drafting  string
	Published string
	Archive   string
}

// Required returns the directories that must exist before any command runs,
// in a stable order.
func (d DirectorySet) Required() []NamedDir {
	return []NamedDir{
		{NameDocx, d.Docx},
		{NamePDF, d.PDF},
		{NameDrafting, d.Drafting},
		{NamePublished, d.Published},
	}
}

// All returns every directory, archive last.
func (d DirectorySet) All() []NamedDir {
	return append(d.Required(), NamedDir{NameArchive, d.Archive})
}

// Paths computes the DirectorySet for cfg without touching the filesystem.
func Paths(cfg types.DirConfig) DirectorySet {
	root := cfg.RootDir
	resume := join(root, cfg.ResumeDir)
	return DirectorySet{
		Root:      root,
		Docx:      join(resume, cfg.DocxDir),
		PDF:       join(resume, cfg.PDFDir),
		Drafting:  join(resume, cfg.DraftingDir),
		Published: join(resume, cfg.PublishedDir),
		Archive:   join(root, cfg.ArchiveDir),
	}
}

// Resolve computes the DirectorySet for cfg and validates it. The root and
// every required directory must exist; the archive directory is created,
// with its parents, when absent.
func Resolve(cfg types.DirConfig) (DirectorySet, error) {
	if strings.TrimSpace(cfg.RootDir) == "" {
		return DirectorySet{}, ErrRootNotSet
	}
	if err := checkDir(cfg.RootDir); err != nil {
		return DirectorySet{}, &RootMissingError{Path: cfg.RootDir, Err: err}
	}

	dirs := Paths(cfg)

	var missing []NamedDir
	for _, d := range dirs.Required() {
		if err := checkDir(d.Path); err != nil {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return dirs, &MissingDirsError{Missing: missing}
	}

	if err := os.MkdirAll(dirs.Archive, 0o755); err != nil {
		return dirs, fmt.Errorf("creating archive directory %s: %w", dirs.Archive, err)
	}

	return dirs, nil
}

// Init creates the root and every working directory for cfg. Existing
// directories are left untouched. It returns the directories it created.
func Init(cfg types.DirConfig) ([]NamedDir, error) {
	if strings.TrimSpace(cfg.RootDir) == "" {
		return nil, ErrRootNotSet
	}
	dirs := Paths(cfg)

	var created []NamedDir
	for _, d := range dirs.All() {
		if checkDir(d.Path) == nil {
			continue
		}
		if err := os.MkdirAll(d.Path, 0o755); err != nil {
			return created, fmt.Errorf("creating %s directory %s: %w", d.Name, d.Path, err)
		}
		created = append(created, d)
	}
	return created, nil
}

// LedgerPath returns the absolute location of the ledger database for cfg.
func LedgerPath(cfg types.Config) string {
	return join(cfg.Dirs.RootDir, cfg.Ledger.File)
}

// join resolves suffix against base unless suffix is already absolute.
// Suffixes use forward slashes in configuration on every platform.
func join(base, suffix string) string {
	suffix = filepath.FromSlash(suffix)
	if filepath.IsAbs(suffix) {
		return suffix
	}
	return filepath.Join(base, suffix)
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
