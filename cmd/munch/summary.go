// ABOUTME: CLI command for nutrition summaries.
// ABOUTME: Shows one day's entries or per-day totals across the whole log.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/munch/internal/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show calorie and macronutrient totals",
	Long:  "Show totals for every logged day, or the entries of a single day with --day.",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var summaryDay string

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryDay, "day", "", "Day to show, YYYY-MM-DD (\"today\" works too)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if summaryDay != "" {
		day := time.Now()
		if summaryDay != "today" {
			parsed, err := time.ParseInLocation(models.DayFormat, summaryDay, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --day %q: use YYYY-MM-DD", summaryDay)
			}
			day = parsed
		}

		log := globalTracker.EntriesForDay(day)
		printDay(out, log, true)
		if len(log.Entries) == 0 {
			_, _ = fmt.Fprintln(out, "  Nothing logged.")
		}
		return nil
	}

	days := globalTracker.DailySummary()
	if len(days) == 0 {
		_, _ = fmt.Fprintln(out, "No food logged yet.")
		return nil
	}
	for _, log := range days {
		printDay(out, log, false)
	}
	_, _ = fmt.Fprintf(out, "\n%s  %.0f kcal  %s\n",
		headerStyle.Render("All days"), globalTracker.TotalCalories(), dimStyle.Render(models.FormatMacros(globalTracker.TotalMacros())))
	return nil
}
