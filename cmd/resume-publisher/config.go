// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-publisher/internal/clock"
	"github.com/pdiddy/resume-publisher/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Config prints the merged configuration (defaults, config file, .env and
environment) as YAML, followed by the resolved directories and whether each
exists. It does not fail on missing directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return fmt.Errorf("marshaling configuration: %w", err)
		}
		fmt.Fprintf(a.out, "%s\n", data)

		if a.cfg.Dirs.RootDir != "" {
			fmt.Fprintln(a.out, "directories:")
			for _, d := range config.Paths(a.cfg.Dirs).All() {
				state := "ok"
				if !isDir(d.Path) {
					state = "missing"
				}
				fmt.Fprintf(a.out, "  %-9s %-7s %s\n", d.Name, state, d.Path)
			}
			fmt.Fprintf(a.out, "  %-9s %-7s %s\n", "ledger", "", config.LedgerPath(a.cfg))
		}

		clk, err := a.clock()
		if err != nil {
			return err
		}
		loc, _ := clk.Location(clock.Local)
		fmt.Fprintf(a.out, "\nlocal zone: %s\ndate formats:\n", loc)
		patterns := clk.Patterns()
		for _, f := range []clock.Format{clock.Long, clock.Archive, clock.Short, clock.Time} {
			fmt.Fprintf(a.out, "  %-7s %q\n", f, patterns[f])
		}
		return nil
	},
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
