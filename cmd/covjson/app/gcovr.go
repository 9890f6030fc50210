package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covjson/internal/config"
	"github.com/zjy-dev/covjson/internal/facts"
	"github.com/zjy-dev/covjson/internal/logger"
	"github.com/zjy-dev/covjson/internal/report"
)

// NewGcovrCommand creates the "gcovr" subcommand.
func NewGcovrCommand() *cobra.Command {
	var (
		dataPath   string
		outPath    string
		sourceRoot string
		failUnder  float64

		pretty    bool
		precision int
	)

	cmd := &cobra.Command{
		Use:   "gcovr",
		Short: "Assemble a JSON coverage report from a gcovr uncovered-report.",
		Long: `This command ingests an uncovered-report document produced by
gcovr-json-util, reduces it to per-function coverage summaries, and writes the
same JSON report format as "report".

The uncovered report carries line counts and missing line numbers per
function, so the resulting report nests functions under each file but has no
executed line lists, branch arcs, or context labels.

Examples:
  # Report to stdout
  covjson gcovr --data uncovered.json

  # Prepend the source tree root to the report's relative paths
  covjson gcovr --data uncovered.json --source-root /src/gcc -o coverage.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger.Init(cfg.LogLevel)

			// Flags override the config file only when given explicitly.
			if cmd.Flags().Changed("pretty") {
				cfg.PrettyPrint = pretty
			}
			if cmd.Flags().Changed("precision") {
				cfg.Precision = precision
			}
			if cfg.Precision < 0 {
				return fmt.Errorf("precision must be non-negative, got %d", cfg.Precision)
			}

			uncovered, err := facts.LoadGcovrUncovered(dataPath)
			if err != nil {
				return fmt.Errorf("failed to load gcovr report: %w", err)
			}
			summaries := facts.FromGcovrUncovered(uncovered, sourceRoot)

			rep := report.AssembleSummaries(summaries, cfg)
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

	cmd.Flags().StringVar(&dataPath, "data", "uncovered.json", "Path to the gcovr uncovered-report document")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "Prepend this path to the report's relative file paths")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "Exit non-zero when total coverage is below this percentage")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().IntVar(&precision, "precision", 1, "Decimal digits in displayed percentages")

	return cmd
}
