// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// recorderTimeout bounds each history write. History writes use their own
// context so a cancelled run still records how it ended.
const recorderTimeout = 5 * time.Second

// History failures are reported as warnings; they never fail the run.

func (r *Runner) beginRun() string {
	if r.recorder == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
	defer cancel()
	id, err := r.recorder.BeginRun(ctx, r.cfg)
	if err != nil {
		fmt.Fprintf(r.out, "warning: run history disabled: %v\n", err)
		r.recorder = nil
		return ""
	}
	return id
}

func (r *Runner) recordOutcome(runID string, seq int, o types.Outcome) {
	if r.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
	defer cancel()
	if err := r.recorder.RecordOutcome(ctx, runID, seq, o); err != nil {
		fmt.Fprintf(r.out, "warning: recording %s: %v\n", o.Identifier, err)
	}
}

func (r *Runner) finishRun(runID string, report *types.RunReport, fatal error) {
	if r.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recorderTimeout)
	defer cancel()
	if err := r.recorder.FinishRun(ctx, runID, report, fatal); err != nil {
		fmt.Fprintf(r.out, "warning: finishing run history: %v\n", err)
	}
}
