// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/clock"
)

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print the current time in a named zone and format",
	Long: `Now renders the current instant with one of the named date formats
(long, archive, short, time) in the local or UTC zone. Use it to check a
format override before archiving with it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		zoneName, _ := cmd.Flags().GetString("zone")
		formatName, _ := cmd.Flags().GetString("format")

		zone, err := clock.ParseZone(zoneName)
		if err != nil {
			return err
		}
		format, err := clock.ParseFormat(formatName)
		if err != nil {
			return err
		}
		clk, err := a.clock()
		if err != nil {
			return err
		}

		s, err := clk.Now(zone, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, s)
		return nil
	},
}

func init() {
	nowCmd.Flags().String("zone", string(clock.Local), "time zone: local or utc")
	nowCmd.Flags().String("format", string(clock.Long), "date format: long, archive, short, or time")

	rootCmd.AddCommand(nowCmd)
}
