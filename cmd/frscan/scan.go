package main

import (
	"github.com/spf13/cobra"

	"frscan/internal/config"
	"frscan/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a file, directory or zip archive",
	Long: `Scan a single source file, a directory or a zip archive.
Files with unrecognized extensions or non-UTF-8 content are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	d := config.Default
	scanCmd.Flags().Bool("static-only", false, "Run only the static rules; no LLM calls.")
	scanCmd.Flags().StringSlice("ignore", d.Scan.Ignore, "Doublestar patterns to skip (replaces the defaults).")
	scanCmd.Flags().Int64("max-file-size", d.Scan.MaxFileSize, "Skip files larger than this many bytes (0 disables).")
	addOutputFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	staticOnly, _ := cmd.Flags().GetBool("static-only")
	a, err := newApp(cmd, !staticOnly, false)
	if err != nil {
		return err
	}
	defer a.Close()

	var records []types.Record
	if staticOnly {
		entries, err := a.pipeline.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		records, err = a.pipeline.RunStatic(entries)
		if err != nil {
			return err
		}
	} else {
		records, err = a.pipeline.Scan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
	}
	return writeReport(cmd, records)
}
