package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/covjson/internal/report"
)

// NewCovjsonCommand creates the root command for the covjson tool.
func NewCovjsonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "covjson",
		Short:   "Aggregate coverage facts into a versioned JSON report.",
		Long:    `Covjson reads per-file coverage facts recorded by a tracer and a static analyzer, computes exact line and branch statistics, and writes a versioned JSON report.`,
		Version: report.Version,
	}

	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewGcovrCommand())

	return cmd
}
