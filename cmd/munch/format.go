// ABOUTME: Terminal output helpers shared by munch subcommands.
// ABOUTME: Renders matches, foods, and daily logs with lipgloss styling.
package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/munch/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

func printMatches(w io.Writer, description string, matches []models.RecognisedFood) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%q", description)))
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(w, "  No matching foods found.")
		return
	}
	for i, m := range matches {
		_, _ = fmt.Fprintf(w, "  %d. %-28s %s  %s\n",
			i+1, m.Item.Name, dimStyle.Render(fmt.Sprintf("[%.2f]", m.Confidence)), describeItem(m.Item))
	}
}

func describeItem(item models.FoodItem) string {
	serving := item.ServingSize
	if serving == "" {
		serving = "1 serving"
	}
	return fmt.Sprintf("%s, %.0f kcal (%s)", serving, item.Calories, models.FormatMacros(item.Macronutrients))
}

func printDay(w io.Writer, log models.DailyLog, withEntries bool) {
	_, _ = fmt.Fprintf(w, "%s  %.0f kcal  %s\n",
		headerStyle.Render(log.Day.Format(models.DayFormat)), log.TotalCalories(), dimStyle.Render(models.FormatMacros(log.TotalMacros())))
	if !withEntries {
		return
	}
	for _, e := range log.Entries {
		_, _ = fmt.Fprintf(w, "  %s  %g × %s  %.0f kcal\n", e.Timestamp.Format("15:04"), e.Quantity, e.Food.Name, e.Calories())
	}
}
