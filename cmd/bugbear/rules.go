package main

import (
	"github.com/spf13/cobra"

	"bugbear/internal/catalog"
	"bugbear/internal/report"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the diagnostic codes",
	Long: `List every diagnostic code with its message and whether the current
configuration reports it.

Examples:
  bugbear rules
  bugbear rules --format json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "human", "Output format (human, json, yaml)")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(rulesFormat)
	if err != nil {
		return err
	}
	return report.WriteRules(cmd.OutOrStdout(), catalog.Default(), cfg.Selection(), format)
}
