package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"frscan/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List languages with static rules and their pattern counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := rules.Default()
		header := lipgloss.NewStyle().Bold(true)
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, header.Render(fmt.Sprintf("%-12s %s", "LANGUAGE", "PATTERNS")))
		for _, lang := range reg.Languages() {
			rs, _ := reg.Lookup(lang)
			fmt.Fprintf(w, "%-12s %d\n", lang, rules.PatternCount(rs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
