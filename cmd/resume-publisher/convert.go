// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert resume documents to PDF",
	Long: `Convert turns the DOCX documents in resume/docx into PDFs in
resume/pdf using LibreOffice (converter: soffice) or a converter container
image (converter: container). Sources are never modified, and a PDF that is
newer than its source is skipped unless --force is given.

With --drafts, plain-text drafts in resume/drafting are also rendered to
proof PDFs beside them. Explicit file arguments are converted into
resume/pdf regardless of the configured patterns.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	drafts, _ := cmd.Flags().GetBool("drafts")

	dirs, err := a.dirs()
	if err != nil {
		return err
	}
	m, err := a.converters(ctx)
	if err != nil {
		return err
	}
	opts := convert.Options{Force: force, Validate: convert.ValidatePDF}

	if len(args) > 0 {
		result := convert.ConvertBatch(ctx, m, args, dirs.PDF, opts, a.out)
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed conversion", result.Failed)
		}
		return nil
	}

	pats := a.cfg.Patterns
	result, err := convert.ConvertDir(ctx, m, dirs.Docx, pats.Docx, pats.CaseSensitive, dirs.PDF, opts, a.out)
	if err != nil {
		return err
	}
	failed := result.Failed

	if drafts {
		fmt.Fprintln(a.out)
		proofs, err := convert.ConvertDir(ctx, m, dirs.Drafting, pats.Draft, pats.CaseSensitive, dirs.Drafting, opts, a.out)
		if err != nil {
			return fmt.Errorf("rendering drafts: %w", err)
		}
		failed += proofs.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().Bool("force", false, "convert even when the PDF is up to date")
	convertCmd.Flags().Bool("drafts", false, "also render plain-text drafts to proof PDFs")

	rootCmd.AddCommand(convertCmd)
}
