package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frscan/internal/types"
	"frscan/internal/util/jsonutil"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run static rules, summaries and judgments over a JSON entry list",
	Long: `Read a JSON array of file entries ({filename, folder, language, code}),
as produced by 'frscan scan --static-only', and run the full pipeline on it.`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("input-json", "", "Path to the input JSON file.")
	enrichCmd.Flags().String("output-json", "", "Where to write the enriched JSON (alias of --out).")
	_ = enrichCmd.MarkFlagRequired("input-json")
	addOutputFlags(enrichCmd)
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	in, _ := cmd.Flags().GetString("input-json")
	if out, _ := cmd.Flags().GetString("output-json"); out != "" {
		if err := cmd.Flags().Set("out", out); err != nil {
			return err
		}
	}

	raw, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var entries []types.FileEntry
	if err := jsonutil.UnmarshalFlex(raw, &entries); err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}

	a, err := newApp(cmd, true, false)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.pipeline.Run(cmd.Context(), entries)
	if err != nil {
		return err
	}
	return writeReport(cmd, records)
}
