// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner drives a batch: for each identifier in the input sheet it
// locates a PDF through one shared browser session, downloads it, and at
// the end writes the failure and success reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/acquire"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/locate"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/sheet"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// SessionFactory opens the browser session used for the whole run.
type SessionFactory func(ctx context.Context) (locate.Session, error)

// Fetcher downloads a URL to a local path.
type Fetcher interface {
	Download(ctx context.Context, url, destPath string) (int64, error)
}

// Recorder persists run history. *ledger.Ledger implements it.
type Recorder interface {
	BeginRun(ctx context.Context, cfg types.RunConfig) (string, error)
	RecordOutcome(ctx context.Context, runID string, seq int, o types.Outcome) error
	FinishRun(ctx context.Context, runID string, report *types.RunReport, fatal error) error
}

// Runner executes one batch. It is single-use and strictly sequential.
type Runner struct {
	cfg         types.RunConfig
	openSession SessionFactory
	fetcher     Fetcher
	recorder    Recorder
	sleep       func(ctx context.Context, d time.Duration) error
	intN        func(n int) int
	out         io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder stores every outcome in r as it is produced.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithOutput sets the writer for status lines (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(rn *Runner) { rn.out = w }
}

// WithSleeper replaces the pause between rows.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(rn *Runner) { rn.sleep = sleep }
}

// WithRand replaces the source of the random pause length. intN(n) must
// return a value in [0, n).
func WithRand(intN func(n int) int) Option {
	return func(rn *Runner) { rn.intN = intN }
}

// New returns a Runner for cfg. Empty settings take their defaults.
func New(cfg types.RunConfig, openSession SessionFactory, fetcher Fetcher, opts ...Option) *Runner {
	r := &Runner{
		cfg:         cfg.WithDefaults(),
		openSession: openSession,
		fetcher:     fetcher,
		sleep:       sleepContext,
		intN:        rand.IntN,
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes the input sheet and writes the reports.
//
// Rows are handled in file order and the loop stops for good at the first
// empty identifier. Per-row failures are recorded and never stop the run.
// A fatal error (unreadable input, browser launch failure, cancelled ctx)
// ends the loop early and is returned, but the browser is still closed and
// whatever was gathered so far is still written to the reports.
func (r *Runner) Run(ctx context.Context) (*types.RunReport, error) {
	report := &types.RunReport{}
	runID := r.beginRun()

	err := r.process(ctx, report, runID)
	if err != nil {
		fmt.Fprintf(r.out, "An error occurred: %v\n", err)
	}

	if writeErr := r.writeReports(report); writeErr != nil {
		err = errors.Join(err, writeErr)
	}
	r.finishRun(runID, report, err)

	fmt.Fprintf(r.out, "\nBatch summary: %d downloaded, %d failed (total: %d)\n",
		len(report.Successes), len(report.Failures), report.Attempted())
	if err == nil {
		fmt.Fprintln(r.out, "Process completed.")
	}
	return report, err
}

// process runs the row loop. The session is released before it returns.
func (r *Runner) process(ctx context.Context, report *types.RunReport, runID string) error {
	if err := os.MkdirAll(r.cfg.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	ids, err := sheet.ReadIdentifiers(r.cfg.InputFile, r.cfg.IdentifierColumn)
	if err != nil {
		return err
	}

	session, err := r.openSession(ctx)
	if err != nil {
		return fmt.Errorf("opening browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			fmt.Fprintf(r.out, "warning: closing browser: %v\n", err)
		}
	}()

	for i, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			// Row 1 is the header, so data row i sits on sheet row i+2.
			fmt.Fprintf(r.out, "Stopping the process due to empty %s at row %d\n", r.cfg.IdentifierColumn, i+2)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome := r.processRow(ctx, session, id)
		report.Record(outcome)
		r.recordOutcome(runID, i, outcome)

		if err := r.pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// processRow searches for one identifier and downloads the first PDF hit.
func (r *Runner) processRow(ctx context.Context, session locate.Session, id string) types.Outcome {
	query := locate.BuildQuery(id)
	fmt.Fprintf(r.out, "Searching for: %s\n", query)

	pdfURL, err := locate.Locate(ctx, session, query)
	if err != nil {
		if errors.Is(err, locate.ErrNotFound) {
			fmt.Fprintf(r.out, "No PDF found for: %s\n", id)
		} else {
			fmt.Fprintf(r.out, "Error during search for %s: %v\n", id, err)
		}
		return types.Failure(id, locate.Classify(err), locate.Reason(err))
	}

	dest, err := acquire.PDFPath(r.cfg.OutputFolder, id)
	if err != nil {
		fmt.Fprintf(r.out, "Failed to download %s: %v\n", pdfURL, err)
		return types.Failure(id, types.OutcomeDownloadError, err.Error())
	}

	if _, err := r.fetcher.Download(ctx, pdfURL, dest); err != nil {
		fmt.Fprintf(r.out, "Failed to download %s: %v\n", pdfURL, err)
		return types.Failure(id, types.OutcomeDownloadError, err.Error())
	}
	fmt.Fprintf(r.out, "Downloaded: %s\n", dest)
	return types.Success(id, pdfURL)
}

// pause sleeps a uniformly random whole number of seconds between
// MinDelay and MaxDelay inclusive.
func (r *Runner) pause(ctx context.Context) error {
	lo := int(r.cfg.MinDelay / time.Second)
	hi := int(r.cfg.MaxDelay / time.Second)
	if hi < lo {
		hi = lo
	}
	secs := lo + r.intN(hi-lo+1)
	return r.sleep(ctx, time.Duration(secs)*time.Second)
}

// writeReports writes each non-empty sequence to its report file.
func (r *Runner) writeReports(report *types.RunReport) error {
	var errs []error

	if len(report.Failures) > 0 {
		if err := sheet.WriteFailures(r.cfg.FailureReport, report.Failures); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(r.out, "Failed entries saved to %s\n", r.cfg.FailureReport)
		}
	} else {
		fmt.Fprintln(r.out, "No failed entries.")
	}

	if len(report.Successes) > 0 {
		if err := sheet.WriteSuccesses(r.cfg.SuccessReport, report.Successes); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(r.out, "Successful entries saved to %s\n", r.cfg.SuccessReport)
		}
	} else {
		fmt.Fprintln(r.out, "No successful downloads.")
	}

	return errors.Join(errs...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
