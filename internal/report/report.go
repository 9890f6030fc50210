// Package report assembles per-file coverage facts into the versioned JSON
// report and its grand totals.
package report

import (
	"encoding/json"
	"io"

	"github.com/zjy-dev/covjson/internal/analysis"
)

// FormatVersion is the report schema version. Field additions are
// backward-compatible and do not bump it; removals, renames, or type changes
// must.
//
// 1: had no meta.format field.
// 2: added meta.format.
const FormatVersion = 2

// Version identifies the producer in the meta block.
const Version = "0.3.0"

// Meta describes the report itself.
type Meta struct {
	Format         int    `json:"format"`
	Version        string `json:"version"`
	Timestamp      string `json:"timestamp"`
	BranchCoverage bool   `json:"branch_coverage"`
	ShowContexts   bool   `json:"show_contexts"`
}

// BranchSummary holds the branch fields of a summary. It is embedded as a
// pointer so the fields appear only when branch data is present.
type BranchSummary struct {
	NumBranches        int `json:"num_branches"`
	NumPartialBranches int `json:"num_partial_branches"`
	CoveredBranches    int `json:"covered_branches"`
	MissingBranches    int `json:"missing_branches"`
}

// Summary is the serialized form of a Numbers record.
type Summary struct {
	CoveredLines          int     `json:"covered_lines"`
	NumStatements         int     `json:"num_statements"`
	PercentCovered        float64 `json:"percent_covered"`
	PercentCoveredDisplay string  `json:"percent_covered_display"`
	MissingLines          int     `json:"missing_lines"`
	ExcludedLines         int     `json:"excluded_lines"`
	*BranchSummary
}

// BranchArcs holds the flattened arc pair lists of a file entry, present only
// in branch mode.
type BranchArcs struct {
	ExecutedBranches [][2]int `json:"executed_branches"`
	MissingBranches  [][2]int `json:"missing_branches"`
}

// ContextMap carries the per-line dynamic context labels, keyed by
// stringified line number. Present only when contexts are requested; an empty
// map is rendered when the tracer recorded none.
type ContextMap struct {
	Contexts map[string][]string `json:"contexts"`
}

// FileEntry is the report of one file, or one narrowed region of a file.
type FileEntry struct {
	ExecutedLines []int   `json:"executed_lines"`
	Summary       Summary `json:"summary"`
	MissingLines  []int   `json:"missing_lines"`
	ExcludedLines []int   `json:"excluded_lines"`
	*BranchArcs
	*ContextMap
	Function map[string]*FileEntry `json:"function,omitempty"`
	Class    map[string]*FileEntry `json:"class,omitempty"`
}

// Report is the complete serialized output.
type Report struct {
	Meta   Meta                  `json:"meta"`
	Files  map[string]*FileEntry `json:"files"`
	Totals Summary               `json:"totals"`
}

// Write serializes the report as JSON to the given writer.
func (r *Report) Write(w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "    ")
	}
	return enc.Encode(r)
}

// TotalPercent returns the overall covered percentage for threshold checks.
// ok is false when there are no statements system-wide.
func (r *Report) TotalPercent() (pc float64, ok bool) {
	if r.Totals.NumStatements == 0 {
		return 0, false
	}
	return r.Totals.PercentCovered, true
}

// newSummary converts a Numbers record to its wire form.
func newSummary(n analysis.Numbers, branch bool, precision int) Summary {
	s := Summary{
		CoveredLines:          n.Executed,
		NumStatements:         n.Statements,
		PercentCovered:        n.PercentCovered(),
		PercentCoveredDisplay: n.Display(precision),
		MissingLines:          n.Missing,
		ExcludedLines:         n.Excluded,
	}
	if branch {
		s.BranchSummary = &BranchSummary{
			NumBranches:        n.Branches,
			NumPartialBranches: n.PartialBranches,
			CoveredBranches:    n.ExecutedBranches,
			MissingBranches:    n.MissingBranches,
		}
	}
	return s
}
