// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-publisher/internal/fileutil"
	"github.com/pdiddy/resume-publisher/internal/ledger"
	"github.com/pdiddy/resume-publisher/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [stem]",
	Short: "List archived files recorded in the ledger",
	Long: `History queries the archive ledger, newest first. Filter by batch with
--batch or by file stem (e.g. "Resume") with a positional argument or
--stem. --batches lists one line per archive run instead of one per file.

--verify checks each archived file against the digest recorded when it was
archived. --export writes the matching records to export.yaml or export.json next to
the ledger database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	ctx := cmd.Context()

	store, err := a.ledger()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if batches, _ := cmd.Flags().GetBool("batches"); batches {
		list, err := store.Batches(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(a, list)
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No archive runs recorded.")
			return nil
		}
		fmt.Fprintf(a.out, "%-36s  %-20s  %5s  %s\n", "Batch", "Timestamp", "Files", "Archived at")
		fmt.Fprintln(a.out, strings.Repeat("-", 90))
		for _, b := range list {
			fmt.Fprintf(a.out, "%-36s  %-20s  %5d  %s\n", b.BatchID, b.Timestamp, b.Files,
				b.ArchivedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	opts := ledger.QueryOptions{Limit: limit}
	opts.BatchID, _ = cmd.Flags().GetString("batch")
	opts.Stem, _ = cmd.Flags().GetString("stem")
	if opts.Stem == "" && len(args) > 0 {
		opts.Stem = args[0]
	}

	if format, _ := cmd.Flags().GetString("export"); format != "" {
		var path string
		switch format {
		case "yaml":
			path, err = store.ExportYAML(ctx, opts)
		case "json":
			path, err = store.ExportJSON(ctx, opts)
		default:
			return fmt.Errorf("unsupported export format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported to %s\n", path)
		return nil
	}

	records, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		return verifyRecords(a, records)
	}
	if jsonOutput {
		return writeJSON(a, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No archived files found.")
		return nil
	}

	fmt.Fprintf(a.out, "%-40s  %-20s  %10s  %s\n", "Archived file", "Original", "Size", "Batch")
	fmt.Fprintln(a.out, strings.Repeat("-", 110))
	for _, r := range records {
		fmt.Fprintf(a.out, "%-40s  %-20s  %10d  %s\n",
			filepath.Base(r.ArchivePath), filepath.Base(r.SourcePath), r.Size, r.BatchID)
	}
	fmt.Fprintf(a.out, "\n%d records\n", len(records))
	return nil
}

// verifyRecords checks every archived file against the size and digest the
// ledger recorded for it.
func verifyRecords(a *app, records []types.ArchiveRecord) error {
	bad := 0
	for _, r := range records {
		name := filepath.Base(r.ArchivePath)
		sum, err := fileutil.SHA256File(r.ArchivePath)
		switch {
		case err != nil:
			fmt.Fprintf(a.out, "missing:  %s (%v)\n", name, err)
			bad++
		case sum != r.SHA256:
			fmt.Fprintf(a.out, "modified: %s\n", name)
			bad++
		default:
			fmt.Fprintf(a.out, "ok:       %s\n", name)
		}
	}
	fmt.Fprintf(a.out, "\nVerify summary: %d ok, %d bad (total: %d)\n", len(records)-bad, bad, len(records))
	if bad > 0 {
		return fmt.Errorf("%d archived file(s) missing or modified", bad)
	}
	return nil
}

func writeJSON(a *app, v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().String("batch", "", "filter by batch ID")
	historyCmd.Flags().String("stem", "", "filter by file stem")
	historyCmd.Flags().Int("limit", 0, "maximum rows (0 = default of 50)")
	historyCmd.Flags().Bool("batches", false, "list archive runs instead of files")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("export", "", "export matching records: yaml or json")
	historyCmd.Flags().Bool("verify", false, "check archived files against their recorded SHA-256")

	rootCmd.AddCommand(historyCmd)
}
