// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// commandRunner runs an external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// SofficeConverter converts documents with a local LibreOffice install in
// headless mode.
type SofficeConverter struct {
	bin string
	run commandRunner
}

// NewSofficeConverter resolves bin on PATH and returns a converter that runs
// it. It fails when LibreOffice is not installed.
func NewSofficeConverter(bin string) (*SofficeConverter, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("LibreOffice binary %q not found: %w", bin, err)
	}
	return &SofficeConverter{bin: path, run: runCombined}, nil
}

// Convert runs soffice --convert-to pdf with outDir as the output directory.
// A private user profile inside outDir keeps the run independent of any
// LibreOffice window the user has open.
func (s *SofficeConverter) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	profile, err := filepath.Abs(filepath.Join(outDir, ".profile"))
	if err != nil {
		return "", err
	}

	args := []string{
		"-env:UserInstallation=" + fileURL(profile),
		"--headless",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		srcPath,
	}
	out, err := s.run(ctx, s.bin, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", filepath.Base(s.bin), err, msg)
		}
		return "", fmt.Errorf("%s: %w", filepath.Base(s.bin), err)
	}

	pdfPath := OutputPath(types.NewResumeFile(srcPath), outDir)
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%s reported success but wrote no %s", filepath.Base(s.bin), filepath.Base(pdfPath))
	}
	return pdfPath, nil
}

// fileURL converts an absolute path into a file:// URL as LibreOffice
// expects for -env options.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}
