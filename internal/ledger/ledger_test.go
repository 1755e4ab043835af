// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	clock := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return l
}

func recordRun(t *testing.T, l *Ledger, input string, outcomes []types.Outcome, fatal error) string {
	t.Helper()
	ctx := context.Background()
	id, err := l.BeginRun(ctx, types.RunConfig{InputFile: input, OutputFolder: "out"})
	require.NoError(t, err)

	var report types.RunReport
	for i, o := range outcomes {
		require.NoError(t, l.RecordOutcome(ctx, id, i, o))
		report.Record(o)
	}
	require.NoError(t, l.FinishRun(ctx, id, &report, fatal))
	return id
}

func TestLedgerRecordsRun(t *testing.T) {
	l := openTestLedger(t)
	outcomes := []types.Outcome{
		types.Success("A1", "https://example.com/A1.pdf"),
		types.Failure("A2", types.OutcomeNotFound, types.ReasonNotFound),
		types.Failure("A3", types.OutcomeSearchTimeout, "Search timed out"),
	}
	id := recordRun(t, l, "in.xlsx", outcomes, nil)

	run, err := l.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "in.xlsx", run.InputFile)
	assert.Equal(t, "out", run.OutputFolder)
	assert.Equal(t, 1, run.Succeeded)
	assert.Equal(t, 2, run.Failed)
	assert.Empty(t, run.FatalError)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.FinishedAt.After(run.StartedAt))

	got, err := l.Outcomes(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, outcomes, got)
}

func TestLedgerFatalError(t *testing.T) {
	l := openTestLedger(t)
	id := recordRun(t, l, "in.csv", nil, errors.New("reading in.csv: column not found"))

	run, err := l.GetRun(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "reading in.csv: column not found", run.FatalError)
}

func TestLedgerRunsNewestFirst(t *testing.T) {
	l := openTestLedger(t)
	first := recordRun(t, l, "one.xlsx", nil, nil)
	second := recordRun(t, l, "two.xlsx", nil, nil)
	third := recordRun(t, l, "three.xlsx", nil, nil)

	runs, err := l.Runs(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, third, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)

	all, err := l.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first, all[2].ID)
}

func TestLedgerUnknownRun(t *testing.T) {
	l := openTestLedger(t)
	_, err := l.GetRun(context.Background(), "missing")
	assert.Error(t, err)

	err = l.FinishRun(context.Background(), "missing", &types.RunReport{}, nil)
	assert.Error(t, err)
}

func TestLedgerReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	require.NoError(t, err)
	id := recordRun(t, l, "in.xlsx", []types.Outcome{types.Success("A1", "u")}, nil)
	require.NoError(t, l.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()
	got, err := l2.Outcomes(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExport(t *testing.T) {
	l := openTestLedger(t)
	id := recordRun(t, l, "in.xlsx", []types.Outcome{
		types.Success("A1", "https://example.com/A1.pdf"),
		types.Failure("A2", types.OutcomeNotFound, types.ReasonNotFound),
	}, nil)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, l.Export(context.Background(), &buf, id, "json"))
		var got RunExport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, id, got.Run.ID)
		require.Len(t, got.Outcomes, 2)
		assert.Equal(t, "A2", got.Outcomes[1].Identifier)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, l.Export(context.Background(), &buf, id, "yaml"))
		var got RunExport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, id, got.Run.ID)
		assert.Equal(t, types.OutcomeNotFound, got.Outcomes[1].Kind)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, l.Export(context.Background(), &bytes.Buffer{}, id, "xml"))
	})
}
