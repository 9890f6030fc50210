package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zjy-dev/covjson/internal/analysis"
	"github.com/zjy-dev/covjson/internal/config"
	"github.com/zjy-dev/covjson/internal/facts"
	"github.com/zjy-dev/covjson/internal/logger"
)

// FileError records one file the assembler had to leave out of the report.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Assemble builds the report for every file the provider knows about, in the
// provider's order. Totals are an O(files) fold of the per-file Numbers.
//
// A file whose facts cannot be fetched is left out and recorded as a
// FileError; the run continues. Only context cancellation aborts the run, in
// which case all partial state is discarded and no report is returned.
func Assemble(ctx context.Context, src facts.Provider, cfg *config.Config) (*Report, []FileError, error) {
	var total analysis.Numbers
	files := make(map[string]*FileEntry)
	var failures []FileError

	for _, path := range src.Files() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		ff, err := src.Query(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			failures = append(failures, FileError{Path: path, Err: err})
			continue
		}

		a := ff.Analyze(cfg.Branch)
		nums := a.Numbers()
		total = total.Merge(nums)

		entry := newFileEntry(a, nums, ff.Contexts, cfg)
		attachRegions(entry, a, ff, cfg)
		files[path] = entry
	}

	rep := &Report{
		Meta: Meta{
			Format:         FormatVersion,
			Version:        Version,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			BranchCoverage: cfg.Branch,
			ShowContexts:   cfg.ShowContexts,
		},
		Files:  files,
		Totals: newSummary(total, cfg.Branch, cfg.Precision),
	}
	return rep, failures, nil
}

func newFileEntry(a *analysis.Analysis, nums analysis.Numbers, contexts map[int][]string, cfg *config.Config) *FileEntry {
	entry := &FileEntry{
		ExecutedLines: a.Executed().Sorted(),
		Summary:       newSummary(nums, cfg.Branch, cfg.Precision),
		MissingLines:  a.Missing().Sorted(),
		ExcludedLines: a.Excluded().Sorted(),
	}
	if cfg.Branch {
		entry.BranchArcs = &BranchArcs{
			ExecutedBranches: a.ExecutedBranchArcs(),
			MissingBranches:  a.MissingBranchArcs(),
		}
	}
	if cfg.ShowContexts {
		entry.ContextMap = &ContextMap{Contexts: wireContexts(contexts)}
	}
	return entry
}

// attachRegions narrows the file analysis once per enabled region and nests
// the result under the region's kind. Disabled kinds are skipped before any
// narrowing happens.
func attachRegions(entry *FileEntry, a *analysis.Analysis, ff *facts.FileFacts, cfg *config.Config) {
	enabled := map[facts.RegionKind]bool{
		facts.FunctionRegion: cfg.ReportFunctions,
		facts.ClassRegion:    cfg.ReportClasses,
	}
	for _, region := range ff.Regions {
		if !enabled[region.Kind] {
			continue
		}
		narrowed := a.Narrow(region.Lines)
		sub := newFileEntry(narrowed, narrowed.Numbers(), ff.Contexts, cfg)
		switch region.Kind {
		case facts.FunctionRegion:
			if entry.Function == nil {
				entry.Function = make(map[string]*FileEntry)
			}
			entry.Function[region.Name] = sub
		case facts.ClassRegion:
			if entry.Class == nil {
				entry.Class = make(map[string]*FileEntry)
			}
			entry.Class[region.Name] = sub
		}
	}
}

// wireContexts relays the tracer's context labels unmodified, keyed by
// stringified line number. The result is never nil: contexts requested
// without any recorded simply render as an empty map.
func wireContexts(contexts map[int][]string) map[string][]string {
	out := make(map[string][]string, len(contexts))
	for line, labels := range contexts {
		out[strconv.Itoa(line)] = labels
	}
	return out
}
