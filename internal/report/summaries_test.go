package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/covjson/internal/analysis"
	"github.com/zjy-dev/covjson/internal/config"
	"github.com/zjy-dev/covjson/internal/facts"
)

func sampleSummaries() []facts.FunctionSummary {
	return []facts.FunctionSummary{
		{Path: "a.c", Function: "f", Numbers: newSummaryNumbers(10, 8), MissingLines: []int{9, 10}},
		{Path: "a.c", Function: "g", Numbers: newSummaryNumbers(5, 5)},
		{Path: "b.c", Function: "h", Numbers: newSummaryNumbers(4, 1), MissingLines: []int{2, 3, 4}},
	}
}

func newSummaryNumbers(statements, executed int) analysis.Numbers {
	return analysis.Numbers{
		Statements: statements,
		Executed:   executed,
		Missing:    statements - executed,
	}
}

func TestAssembleSummaries(t *testing.T) {
	rep := AssembleSummaries(sampleSummaries(), config.Default())

	t.Run("should emit the meta block", func(t *testing.T) {
		assert.Equal(t, FormatVersion, rep.Meta.Format)
		assert.Equal(t, Version, rep.Meta.Version)
		assert.NotEmpty(t, rep.Meta.Timestamp)
		assert.False(t, rep.Meta.BranchCoverage)
		assert.False(t, rep.Meta.ShowContexts)
	})

	t.Run("should nest functions under their file", func(t *testing.T) {
		entry := rep.Files["a.c"]
		require.NotNil(t, entry)
		require.Len(t, entry.Function, 2)

		f := entry.Function["f"]
		require.NotNil(t, f)
		assert.Equal(t, 10, f.Summary.NumStatements)
		assert.Equal(t, 8, f.Summary.CoveredLines)
		assert.Equal(t, []int{9, 10}, f.MissingLines)
		assert.Equal(t, []int{}, f.ExecutedLines)

		g := entry.Function["g"]
		require.NotNil(t, g)
		assert.Equal(t, "100.0", g.Summary.PercentCoveredDisplay)
		assert.Equal(t, []int{}, g.MissingLines)
	})

	t.Run("should fold function numbers into the file summary", func(t *testing.T) {
		entry := rep.Files["a.c"]
		require.NotNil(t, entry)
		assert.Equal(t, 15, entry.Summary.NumStatements)
		assert.Equal(t, 13, entry.Summary.CoveredLines)
		assert.Equal(t, "86.7", entry.Summary.PercentCoveredDisplay)
		assert.Equal(t, []int{9, 10}, entry.MissingLines)
	})

	t.Run("should fold file numbers into the totals", func(t *testing.T) {
		assert.Equal(t, 19, rep.Totals.NumStatements)
		assert.Equal(t, 14, rep.Totals.CoveredLines)
		assert.Equal(t, 5, rep.Totals.MissingLines)
	})

	t.Run("should honor the configured precision", func(t *testing.T) {
		cfg := config.Default()
		cfg.Precision = 2
		rep := AssembleSummaries(sampleSummaries(), cfg)
		assert.Equal(t, "73.68", rep.Totals.PercentCoveredDisplay)
	})

	t.Run("should report empty totals for no summaries", func(t *testing.T) {
		rep := AssembleSummaries(nil, config.Default())
		assert.Empty(t, rep.Files)
		assert.Equal(t, 0, rep.Totals.NumStatements)
		_, ok := rep.TotalPercent()
		assert.False(t, ok)
	})
}

func TestAssembleSummariesWireFormat(t *testing.T) {
	rep := AssembleSummaries(sampleSummaries(), config.Default())
	parsed := decode(t, rep, false)

	files := parsed["files"].(map[string]any)
	entry := files["b.c"].(map[string]any)

	t.Run("should omit branch and context keys", func(t *testing.T) {
		assert.NotContains(t, entry, "executed_branches")
		assert.NotContains(t, entry, "missing_branches")
		assert.NotContains(t, entry, "contexts")
		summary := entry["summary"].(map[string]any)
		assert.NotContains(t, summary, "num_branches")
	})

	t.Run("should render empty executed line lists", func(t *testing.T) {
		assert.Equal(t, []any{}, entry["executed_lines"])
		assert.Equal(t, []any{2.0, 3.0, 4.0}, entry["missing_lines"])
	})

	t.Run("should omit the class key", func(t *testing.T) {
		assert.Contains(t, entry, "function")
		assert.NotContains(t, entry, "class")
	})
}
