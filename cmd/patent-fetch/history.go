// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs or export one run's outcomes",
	Long: `History reads the run ledger written by "run --ledger". Without arguments
it lists recent runs; with a run ID it prints every outcome of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", "patent-fetch.db", "SQLite run history file")
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	historyCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("ledger")
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	if len(args) == 1 {
		if format == "table" {
			format = "yaml"
		}
		return l.Export(cmd.Context(), out, args[0], format)
	}

	runs, err := l.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case "yaml":
		data, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "table":
	default:
		return fmt.Errorf("unsupported format %q (want table, yaml, or json)", format)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %-9s  %-6s  %s\n", "Run", "Started", "Succeeded", "Failed", "Input")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, r := range runs {
		input := r.InputFile
		if r.FatalError != "" {
			input += " (aborted)"
		}
		fmt.Fprintf(out, "%-36s  %-20s  %-9d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Succeeded, r.Failed, input)
	}
	return nil
}
