// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move published PDFs into the archive under timestamped names",
	Long: `Archive copies every file in resume/published that matches the resume
pattern into the archive directory as <stem><timestamp><ext>, where the
timestamp is the ARCHIVE date format in local time, shared by every file of
the run. Each original is removed only after its copy is complete.

Archiving an empty published directory is an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		dirs, err := a.dirs()
		if err != nil {
			return err
		}
		clk, err := a.clock()
		if err != nil {
			return err
		}
		rec, closeLedger := a.recorder()
		defer closeLedger()

		_, err = archive.Archive(cmd.Context(), clk, archive.Options{
			PublishedDir:  dirs.Published,
			ArchiveDir:    dirs.Archive,
			Pattern:       a.cfg.Patterns.Resume,
			CaseSensitive: a.cfg.Patterns.CaseSensitive,
			Recorder:      rec,
		}, a.out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
