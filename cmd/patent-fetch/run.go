// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/acquire"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/httputil"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/ledger"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/locate"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/runner"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search and download PDFs for every application number in a spreadsheet",
	Long: `Run reads the identifier column of the input spreadsheet (.xlsx or .csv)
and, row by row, searches for "<number>" filetype:pdf, downloads the first
PDF link to <output-folder>/<number>.pdf, and pauses a random 2-6 seconds.
Processing stops at the first row with an empty application number.

Failures and successes are written to two report files at the end. A report
with no rows is not written. Existing PDFs and reports are overwritten.`,
	RunE: runBatch,
}

func init() {
	f := runCmd.Flags()
	f.StringP("input", "i", "", "input spreadsheet (.xlsx or .csv)")
	f.String("column", types.DefaultIdentifierColumn, "header of the application number column")
	f.StringP("output-folder", "o", types.DefaultOutputFolder, "folder for downloaded PDFs")
	f.String("failure-report", types.DefaultFailureReport, "failure report (.xlsx or .csv)")
	f.String("success-report", types.DefaultSuccessReport, "success report (.xlsx or .csv)")
	f.Duration("min-delay", types.DefaultMinDelay, "shortest pause between rows")
	f.Duration("max-delay", types.DefaultMaxDelay, "longest pause between rows")
	f.String("ledger", "", "SQLite file for run history (default: disabled)")
	f.Bool("fail-on-errors", false, "exit non-zero when any application number failed")

	for key, flag := range map[string]string{
		"input":             "input",
		"identifier_column": "column",
		"output_folder":     "output-folder",
		"failure_report":    "failure-report",
		"success_report":    "success-report",
		"min_delay":         "min-delay",
		"max_delay":         "max-delay",
		"ledger":            "ledger",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := runConfig()
	if cfg.InputFile == "" {
		return fmt.Errorf("provide an input spreadsheet with --input")
	}

	out := cmd.OutOrStdout()
	opts := []runner.Option{runner.WithOutput(out)}

	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: run history disabled: %v\n", err)
		} else {
			defer l.Close()
			opts = append(opts, runner.WithRecorder(l))
		}
	}

	downloader := acquire.NewDownloader(httputil.NewClient(cfg.HTTPConfig))
	r := runner.New(cfg, chromeSessionFactory(cfg), downloader, opts...)

	report, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	failOnErrors, _ := cmd.Flags().GetBool("fail-on-errors")
	if failOnErrors && report.HasFailures() {
		return fmt.Errorf("%d application number(s) failed", len(report.Failures))
	}
	return nil
}

// chromeSessionFactory opens a Chrome session configured from cfg.
func chromeSessionFactory(cfg types.RunConfig) runner.SessionFactory {
	return func(ctx context.Context) (locate.Session, error) {
		s, err := locate.NewChromeSession(ctx, cfg.Browser, cfg.UserAgent)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
