package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	metricsDays  int
	retainDays   int
	metricsClean bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show search usage and system health",
	Long: `Prints per-day search counts by outcome. With --cleanup, metrics older
than --retain days are deleted first.`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().IntVar(&metricsDays, "days", 7, "days of usage to show")
	metricsCmd.Flags().IntVar(&retainDays, "retain", 30, "days of metrics to keep when cleaning up")
	metricsCmd.Flags().BoolVar(&metricsClean, "cleanup", false, "delete metrics older than --retain days")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := contextOf(cmd)
	out := cmd.OutOrStdout()
	if metricsClean {
		n, err := a.CleanupMetrics(ctx, retainDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d metric(s) older than %d days\n\n", n, retainDays)
	}

	usage, err := a.DailyUsage(ctx, metricsDays)
	if err != nil {
		return err
	}
	stats, err := a.RecipeStats(ctx)
	if err != nil {
		return err
	}
	health := a.Health()
	if jsonOutput {
		return printJSON(cmd, map[string]any{"usage": usage, "recipes": stats, "health": health})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSEARCHES\tCATALOG\tLOOKUP\tSYNTHESIZED\tAVG MS")
	for _, d := range usage {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.0f\n", d.Date, d.Searches, d.Catalog, d.Lookup, d.Synthesized, d.AvgLatencyMS)
	}
	w.Flush()

	fmt.Fprintf(out, "\nRecipes: %d imported, %d in book\n", stats.Imported, stats.Book)
	fmt.Fprintf(out, "RAM %dMB alloc / %dMB sys, %d goroutines, data %s\n",
		health.AllocMB, health.SysMB, health.Goroutines, health.DataDiskSize)
	return nil
}
