package report

import (
	"time"

	"github.com/zjy-dev/covjson/internal/analysis"
	"github.com/zjy-dev/covjson/internal/config"
	"github.com/zjy-dev/covjson/internal/facts"
)

// AssembleSummaries builds a report from per-function coverage summaries, the
// shape an external gcovr uncovered-report reduces to. Each function nests
// under its file entry and its Numbers fold into the file summary and the
// totals through the same merge as native facts.
//
// The summaries carry counts and missing line numbers only, so executed line
// lists are empty and branch and context fields are never present.
func AssembleSummaries(summaries []facts.FunctionSummary, cfg *config.Config) *Report {
	files := make(map[string]*FileEntry)
	fileNums := make(map[string]analysis.Numbers)
	fileMissing := make(map[string]analysis.LineSet)

	for _, s := range summaries {
		fileNums[s.Path] = fileNums[s.Path].Merge(s.Numbers)

		missing := analysis.LineSetOf(s.MissingLines)
		fileMissing[s.Path] = fileMissing[s.Path].Union(missing)

		entry, ok := files[s.Path]
		if !ok {
			entry = &FileEntry{Function: make(map[string]*FileEntry)}
			files[s.Path] = entry
		}
		entry.Function[s.Function] = &FileEntry{
			ExecutedLines: []int{},
			Summary:       newSummary(s.Numbers, false, cfg.Precision),
			MissingLines:  missing.Sorted(),
			ExcludedLines: []int{},
		}
	}

	for path, entry := range files {
		entry.ExecutedLines = []int{}
		entry.Summary = newSummary(fileNums[path], false, cfg.Precision)
		entry.MissingLines = fileMissing[path].Sorted()
		entry.ExcludedLines = []int{}
	}

	return &Report{
		Meta: Meta{
			Format:    FormatVersion,
			Version:   Version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Files:  files,
		Totals: newSummary(facts.MergeSummaries(summaries), false, cfg.Precision),
	}
}
