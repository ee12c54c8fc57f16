// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the resume directory layout under the root",
	Long: `Init creates the root directory and every working directory
(resume/docx, resume/pdf, resume/drafting, resume/published, and the archive
directory). Directories that already exist are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		created, err := config.Init(a.cfg.Dirs)
		for _, d := range created {
			fmt.Fprintf(a.out, "created: %-9s %s\n", d.Name, d.Path)
		}
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Fprintln(a.out, "All directories already exist.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
