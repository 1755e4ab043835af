// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// RunExport is one run together with its outcomes.
type RunExport struct {
	Run      Run             `json:"run" yaml:"run"`
	Outcomes []types.Outcome `json:"outcomes" yaml:"outcomes"`
}

// Export writes a run and its outcomes to w as "yaml" or "json".
func (l *Ledger) Export(ctx context.Context, w io.Writer, runID, format string) error {
	run, err := l.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	outcomes, err := l.Outcomes(ctx, runID)
	if err != nil {
		return err
	}
	entry := RunExport{Run: run, Outcomes: outcomes}

	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q (want yaml or json)", format)
	}
}
