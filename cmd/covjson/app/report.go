package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covjson/internal/config"
	"github.com/zjy-dev/covjson/internal/facts"
	"github.com/zjy-dev/covjson/internal/logger"
	"github.com/zjy-dev/covjson/internal/report"
)

// writeReport serializes the report to outPath, or to the command's stdout
// when outPath is empty. The output file's close error is checked: a failed
// flush must not pass silently.
func writeReport(cmd *cobra.Command, rep *report.Report, outPath string, pretty bool) error {
	if outPath == "" {
		if err := rep.Write(cmd.OutOrStdout(), pretty); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := rep.Write(f, pretty); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// NewReportCommand creates the "report" subcommand.
func NewReportCommand() *cobra.Command {
	var (
		dataPath  string
		outPath   string
		failUnder float64

		branch    bool
		functions bool
		classes   bool
		contexts  bool
		pretty    bool
		precision int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble a JSON coverage report from recorded facts.",
		Long: `This command reads a coverage facts document, computes per-file and total
statistics, and writes the JSON report.

The facts document is produced by the tracer and static analyzer; per file it
lists executable statements, excluded lines, executed lines and, for branch
coverage, the possible and executed control-flow arcs, plus optional code
regions and per-line context labels.

Files whose facts are malformed are skipped and reported; the run continues.

Examples:
  # Report to stdout
  covjson report --data facts.json

  # Branch coverage with per-function breakdown, written to a file
  covjson report --data facts.json --branch --functions -o coverage.json

  # Fail the build below 80% total coverage
  covjson report --data facts.json --fail-under 80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger.Init(cfg.LogLevel)

			// Flags override the config file only when given explicitly.
			flagOverrides := map[string]func(){
				"branch":    func() { cfg.Branch = branch },
				"functions": func() { cfg.ReportFunctions = functions },
				"classes":   func() { cfg.ReportClasses = classes },
				"contexts":  func() { cfg.ShowContexts = contexts },
				"pretty":    func() { cfg.PrettyPrint = pretty },
				"precision": func() { cfg.Precision = precision },
			}
			for name, apply := range flagOverrides {
				if cmd.Flags().Changed(name) {
					apply()
				}
			}
			if cfg.Precision < 0 {
				return fmt.Errorf("precision must be non-negative, got %d", cfg.Precision)
			}

			store, err := facts.Load(dataPath)
			if err != nil {
				return fmt.Errorf("failed to load facts: %w", err)
			}

			rep, failures, err := report.Assemble(cmd.Context(), store, cfg)
			if err != nil {
				return fmt.Errorf("report aborted: %w", err)
			}
			if len(failures) > 0 {
				logger.Warn("%d file(s) omitted from the report", len(failures))
			}

			if err := writeReport(cmd, rep, outPath, cfg.PrettyPrint); err != nil {
				return err
			}

			pc, ok := rep.TotalPercent()
			if !ok {
				logger.Info("no statements recorded")
			} else {
				logger.Info("total coverage: %s%%", rep.Totals.PercentCoveredDisplay)
			}
			if cmd.Flags().Changed("fail-under") {
				if !ok || pc < failUnder {
					return fmt.Errorf("total coverage %s%% is below --fail-under %.2f", rep.Totals.PercentCoveredDisplay, failUnder)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "facts.json", "Path to the coverage facts document")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "Exit non-zero when total coverage is below this percentage")
	cmd.Flags().BoolVar(&branch, "branch", false, "Include branch-arc statistics")
	cmd.Flags().BoolVar(&functions, "functions", false, "Nest per-function statistics under each file")
	cmd.Flags().BoolVar(&classes, "classes", false, "Nest per-class statistics under each file")
	cmd.Flags().BoolVar(&contexts, "contexts", false, "Include per-line context labels")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().IntVar(&precision, "precision", 1, "Decimal digits in displayed percentages")

	return cmd
}
