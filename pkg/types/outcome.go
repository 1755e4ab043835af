// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeKind says why a row ended the way it did. Reports only carry the
// reason text; the kind lets callers tell a missing PDF from a broken search.
type OutcomeKind string

const (
	OutcomeDownloaded    OutcomeKind = "downloaded"
	OutcomeNotFound      OutcomeKind = "not_found"
	OutcomeSearchTimeout OutcomeKind = "search_timeout"
	OutcomeSearchError   OutcomeKind = "search_error"
	OutcomeDownloadError OutcomeKind = "download_error"
)

// ReasonNotFound is the failure reason recorded when the search shows no PDF link.
const ReasonNotFound = "PDF not found"

// Outcome is the result of processing one identifier. A success carries the
// source URL; a failure carries a human-readable reason.
type Outcome struct {
	Identifier string      `json:"identifier" yaml:"identifier"`
	Kind       OutcomeKind `json:"kind" yaml:"kind"`
	SourceURL  string      `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Reason     string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Success builds a successful outcome.
func Success(identifier, sourceURL string) Outcome {
	return Outcome{Identifier: identifier, Kind: OutcomeDownloaded, SourceURL: sourceURL}
}

// Failure builds a failed outcome.
func Failure(identifier string, kind OutcomeKind, reason string) Outcome {
	return Outcome{Identifier: identifier, Kind: kind, Reason: reason}
}

// Succeeded reports whether the outcome is a success.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeDownloaded
}

// RunReport partitions the outcomes of a run, each side in row order.
type RunReport struct {
	Successes []Outcome `json:"successes" yaml:"successes"`
	Failures  []Outcome `json:"failures" yaml:"failures"`
}

// Record appends o to the matching sequence.
func (r *RunReport) Record(o Outcome) {
	if o.Succeeded() {
		r.Successes = append(r.Successes, o)
		return
	}
	r.Failures = append(r.Failures, o)
}

// Attempted returns the number of identifiers that produced an outcome.
func (r *RunReport) Attempted() int {
	return len(r.Successes) + len(r.Failures)
}

// HasFailures reports whether any identifier failed.
func (r *RunReport) HasFailures() bool {
	return len(r.Failures) > 0
}
