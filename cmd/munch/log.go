// ABOUTME: CLI command for logging a meal.
// ABOUTME: Recognises a description and records the chosen match, or runs the TUI wizard.
package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/munch/internal/models"
	"github.com/2389-research/munch/internal/tracker"
	"github.com/2389-research/munch/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log [description]",
	Short: "Log something you ate",
	Long: `Recognise a description and log the best match.

Use --pick to choose a lower-ranked match (see "munch scan"), or
--interactive to pick from a list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

var (
	logQuantity    float64
	logAt          string
	logPick        int
	logInteractive bool
)

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().Float64VarP(&logQuantity, "quantity", "q", tracker.DefaultQuantity, "Number of servings")
	logCmd.Flags().StringVar(&logAt, "at", "", "When it was eaten: RFC3339, \"YYYY-MM-DD HH:MM\", or \"HH:MM\" today (default: now)")
	logCmd.Flags().IntVar(&logPick, "pick", 1, "Log the Nth best match instead of the first")
	logCmd.Flags().BoolVarP(&logInteractive, "interactive", "i", false, "Choose the match and quantity in a wizard")
}

func runLog(cmd *cobra.Command, args []string) error {
	at, err := parseAt(logAt, time.Now())
	if err != nil {
		return err
	}

	description := ""
	if len(args) == 1 {
		description = args[0]
	}

	if logInteractive {
		return runLogWizard(cmd, description, at)
	}

	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("a description is required (or use --interactive)")
	}
	if logPick < 1 {
		return fmt.Errorf("--pick must be at least 1, got %d", logPick)
	}

	matches := globalTracker.ScanDescription(description, max(logPick, topK(0)))
	if len(matches) < logPick || matches[logPick-1].Confidence <= 0 {
		return fmt.Errorf("%w for %q; add it with \"munch add\"", tracker.ErrNoMatch, description)
	}
	match := matches[logPick-1]

	entry, err := globalTracker.LogFood(match.Item, logQuantity, at)
	if err != nil {
		return err
	}
	printLogged(cmd, entry)
	return nil
}

func runLogWizard(cmd *cobra.Command, description string, at time.Time) error {
	recognise := func(d string) []models.RecognisedFood {
		return globalTracker.ScanDescription(d, topK(0))
	}

	p := tea.NewProgram(tui.NewLogModel(description, recognise))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	item, quantity, ok := result.(tui.LogModel).Result()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing logged.")
		return nil
	}

	entry, err := globalTracker.LogFood(item, quantity, at)
	if err != nil {
		return err
	}
	printLogged(cmd, entry)
	return nil
}

func printLogged(cmd *cobra.Command, entry *models.FoodEntry) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %g × %s  %.0f kcal (%s)\n",
		okStyle.Render("Logged"), entry.Quantity, entry.Food.Name, entry.Calories(), models.FormatMacros(entry.Macros()))
}

// parseAt reads a --at value. Empty means the zero time, which the tracker treats as now.
func parseAt(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", value, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: use RFC3339, \"YYYY-MM-DD HH:MM\", or \"HH:MM\"", value)
}
