package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"frscan/internal/report"
	"frscan/internal/types"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", report.FormatJSON, "Output format: json, sarif or text.")
	cmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout.")
}

func writeReport(cmd *cobra.Command, records []types.Record) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return report.Write(w, format, records)
}
