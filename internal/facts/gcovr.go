package facts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zjy-dev/gcovr-json-util/v2/pkg/gcovr"

	"github.com/zjy-dev/covjson/internal/analysis"
)

// LoadGcovrUncovered reads an uncovered-report document as serialized by
// gcovr-json-util.
func LoadGcovrUncovered(path string) (*gcovr.UncoveredReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gcovr report: %w", err)
	}
	var report gcovr.UncoveredReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse gcovr report: %w", err)
	}
	return &report, nil
}

// FunctionSummary is one function's coverage as reported by an external
// gcovr uncovered-report, reduced to this engine's metric record.
type FunctionSummary struct {
	Path         string
	Function     string
	Numbers      analysis.Numbers
	MissingLines []int
}

// FromGcovrUncovered converts gcovr-json-util's UncoveredReport into
// per-function summaries whose Numbers merge into the same totals machinery
// as native facts. sourceParentPath, when set, is prepended to the report's
// relative file paths.
//
// The uncovered report carries counts and missing line numbers only, so the
// summaries have no executed line sets and cannot be narrowed further.
func FromGcovrUncovered(report *gcovr.UncoveredReport, sourceParentPath string) []FunctionSummary {
	if report == nil {
		return []FunctionSummary{}
	}

	var out []FunctionSummary
	for _, file := range report.Files {
		path := file.FilePath
		if sourceParentPath != "" {
			path = filepath.Join(sourceParentPath, file.FilePath)
		}
		for _, fn := range file.UncoveredFunctions {
			name := fn.DemangledName
			if name == "" {
				name = fn.FunctionName
			}
			missing := append([]int(nil), fn.UncoveredLineNumbers...)
			sort.Ints(missing)
			out = append(out, FunctionSummary{
				Path:     path,
				Function: name,
				Numbers: analysis.Numbers{
					Statements: fn.TotalLines,
					Executed:   fn.CoveredLines,
					Missing:    fn.TotalLines - fn.CoveredLines,
				},
				MissingLines: missing,
			})
		}
	}
	return out
}

// MergeSummaries folds the per-function records into one total.
func MergeSummaries(summaries []FunctionSummary) analysis.Numbers {
	var total analysis.Numbers
	for _, s := range summaries {
		total = total.Merge(s.Numbers)
	}
	return total
}
