// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads resume-publisher settings from environment, dotenv and
// YAML sources, and resolves them into a validated directory layout.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// Default values for every key that has one.
const (
	DefaultResumeDir     = "resume"
	DefaultDocxDir       = "docx"
	DefaultPDFDir        = "pdf"
	DefaultDraftingDir   = "drafting"
	DefaultPublishedDir  = "published"
	DefaultArchiveDir    = "archive/resumes"
	DefaultResumePattern = "*.pdf"
	DefaultDocxPattern   = "*.docx"
	DefaultDraftPattern  = "*.txt"
	DefaultLongFormat    = "%Y-%m-%d %H:%M:%S %Z"
	DefaultArchiveFormat = "_%Y%m%d__%H-%M_%S"
	DefaultSofficeBin    = "soffice"
	DefaultImage         = "docx2pdf:latest"
	DefaultLedgerFile    = "archive/ledger.db"
)

// Viper keys.
const (
	KeyRootDir       = "root_dir"
	KeyResumeDir     = "resume_dir"
	KeyDocxDir       = "docx_dir"
	KeyPDFDir        = "pdf_dir"
	KeyDraftingDir   = "drafting_dir"
	KeyPublishedDir  = "published_dir"
	KeyArchiveDir    = "archive_dir"
	KeyResumePattern = "resume_pattern"
	KeyDocxPattern   = "docx_pattern"
	KeyDraftPattern  = "draft_pattern"
	KeyCaseSensitive = "case_sensitive"
	KeyTimeZone      = "time_zone"
	KeyLongFormat    = "long_date_format"
	KeyArchiveFormat = "archive_date_format"
	KeyShortFormat   = "short_date_format"
	KeyTimeFormat    = "time_format"
	KeyConverter     = "converter"
	KeySofficeBin    = "soffice_bin"
	KeyImage         = "container_image"
	KeyLedgerFile    = "ledger_file"
	KeyLedgerEnabled = "ledger_enabled"
)

// setting binds one key to its environment variables and default.
type setting struct {
	key  string
	envs []string
	def  any
}

// settings lists every key. Environment names follow the ones the tool has
// always read, so existing .env files keep working.
var settings = []setting{
	{KeyRootDir, []string{"RESUME_ROOT_DIR", "OneDrive"}, nil},
	{KeyResumeDir, []string{"RESUME_DIR"}, DefaultResumeDir},
	{KeyDocxDir, []string{"DOCX_DIR", "INPUT_DIR"}, DefaultDocxDir},
	{KeyPDFDir, []string{"PDF_DIR", "OUTPUT_DIR"}, DefaultPDFDir},
	{KeyDraftingDir, []string{"DRAFTING_DIR"}, DefaultDraftingDir},
	{KeyPublishedDir, []string{"PUBLISHED_DIR"}, DefaultPublishedDir},
	{KeyArchiveDir, []string{"ARCHIVE_DIR"}, DefaultArchiveDir},
	{KeyResumePattern, []string{"RESUME_PATTERN"}, DefaultResumePattern},
	{KeyDocxPattern, []string{"DOCX_PATTERN"}, DefaultDocxPattern},
	{KeyDraftPattern, []string{"DRAFT_PATTERN"}, DefaultDraftPattern},
	{KeyCaseSensitive, []string{"CASE_SENSITIVE"}, false},
	{KeyTimeZone, []string{"TIME_ZONE"}, ""},
	{KeyLongFormat, []string{"LONG_DATE_FORMAT"}, DefaultLongFormat},
	{KeyArchiveFormat, []string{"ARCHIVE_DATE_FORMAT"}, DefaultArchiveFormat},
	{KeyShortFormat, []string{"SHORT_DATE_FORMAT"}, ""},
	{KeyTimeFormat, []string{"TIME_FORMAT"}, ""},
	{KeyConverter, []string{"CONVERTER"}, string(types.BackendSoffice)},
	{KeySofficeBin, []string{"SOFFICE_BIN"}, DefaultSofficeBin},
	{KeyImage, []string{"CONVERTER_IMAGE"}, DefaultImage},
	{KeyLedgerFile, []string{"LEDGER_FILE"}, DefaultLedgerFile},
	{KeyLedgerEnabled, []string{"LEDGER_ENABLED"}, true},
}

// Bind registers defaults and environment bindings for every key on v.
func Bind(v *viper.Viper) error {
	for _, s := range settings {
		if s.def != nil {
			v.SetDefault(s.key, s.def)
		}
		args := append([]string{s.key}, s.envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s: %w", s.key, err)
		}
	}
	return nil
}

// LoadDotenv reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotenv(path string) (bool, error) {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}

// Load reads every key from v into a Config. It does not touch the
// filesystem; see Resolve for directory validation.
func Load(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Dirs: types.DirConfig{
			RootDir:      v.GetString(KeyRootDir),
			ResumeDir:    v.GetString(KeyResumeDir),
			DocxDir:      v.GetString(KeyDocxDir),
			PDFDir:       v.GetString(KeyPDFDir),
			DraftingDir:  v.GetString(KeyDraftingDir),
			PublishedDir: v.GetString(KeyPublishedDir),
			ArchiveDir:   v.GetString(KeyArchiveDir),
		},
		Patterns: types.PatternConfig{
			Resume:        v.GetString(KeyResumePattern),
			Docx:          v.GetString(KeyDocxPattern),
			Draft:         v.GetString(KeyDraftPattern),
			CaseSensitive: v.GetBool(KeyCaseSensitive),
		},
		Time: types.TimeConfig{
			TimeZone:      v.GetString(KeyTimeZone),
			LongFormat:    v.GetString(KeyLongFormat),
			ArchiveFormat: v.GetString(KeyArchiveFormat),
			ShortFormat:   v.GetString(KeyShortFormat),
			TimeFormat:    v.GetString(KeyTimeFormat),
		},
		Conversion: types.ConversionConfig{
			Backend:        types.ConversionBackend(v.GetString(KeyConverter)),
			SofficeBin:     v.GetString(KeySofficeBin),
			ContainerImage: v.GetString(KeyImage),
		},
		Ledger: types.LedgerConfig{
			Enabled: v.GetBool(KeyLedgerEnabled),
			File:    v.GetString(KeyLedgerFile),
		},
	}

	switch cfg.Conversion.Backend {
	case types.BackendSoffice, types.BackendContainer:
	default:
		return cfg, fmt.Errorf("unknown converter %q (want %s or %s)",
			cfg.Conversion.Backend, types.BackendSoffice, types.BackendContainer)
	}
	for name, p := range map[string]string{
		KeyResumePattern: cfg.Patterns.Resume,
		KeyDocxPattern:   cfg.Patterns.Docx,
		KeyDraftPattern:  cfg.Patterns.Draft,
	} {
		if p == "" {
			return cfg, fmt.Errorf("%s must not be empty", name)
		}
	}

	return cfg, nil
}
