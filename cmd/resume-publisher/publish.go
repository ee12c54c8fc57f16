// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/convert"
	"github.com/pdiddy/resume-publisher/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Convert, archive the current PDFs, and publish the new ones",
	Long: `Publish runs the whole pipeline: convert resume/docx into resume/pdf,
archive what is currently in resume/published, then copy the PDFs into
resume/published. A failed conversion stops the run before the published
directory is touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		dirs, err := a.dirs()
		if err != nil {
			return err
		}
		clk, err := a.clock()
		if err != nil {
			return err
		}
		conv, err := a.documentConverter(ctx)
		if err != nil {
			return err
		}
		rec, closeLedger := a.recorder()
		defer closeLedger()

		_, err = publish.Run(ctx, clk, publish.Options{
			Dirs:      dirs,
			Patterns:  a.cfg.Patterns,
			Converter: conv,
			Convert:   convert.Options{Force: force, Validate: convert.ValidatePDF},
			Recorder:  rec,
		}, a.out)
		return err
	},
}

func init() {
	publishCmd.Flags().Bool("force", false, "reconvert every document even when its PDF is up to date")

	rootCmd.AddCommand(publishCmd)
}
