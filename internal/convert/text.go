// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/resume-publisher/pkg/types"
)

// TextConverter renders plain-text drafts to a simple proof PDF: one page
// flow of monospaced lines on Letter paper.
type TextConverter struct {
	// FontSize is the body font size in points (default 10).
	FontSize float64
}

// Convert renders srcPath to outDir/<stem>.pdf.
func (t *TextConverter) Convert(ctx context.Context, srcPath, outDir string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	size := t.FontSize
	if size <= 0 {
		size = 10
	}
	lineHeight := size * 0.5

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(types.NewResumeFile(srcPath).Stem, true)
	pdf.AddPage()
	pdf.SetFont("Courier", "", size)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line := strings.ReplaceAll(scanner.Text(), "\t", "    ")
		if line == "" {
			pdf.Ln(lineHeight)
			continue
		}
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", srcPath, err)
	}

	pdfPath := OutputPath(types.NewResumeFile(srcPath), outDir)
	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return "", fmt.Errorf("writing %s: %w", pdfPath, err)
	}
	return pdfPath, nil
}
