// ABOUTME: CLI command for adding custom foods to the catalog.
// ABOUTME: Validates nutrition flags and persists the food for future recognition.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom food to the catalog",
	Long: `Add a food the catalog doesn't know. It is saved with your log and
recognised by name or alias from then on.

Example:
  munch add "Protein Shake" --serving "1 bottle" --calories 160 --macro protein=30 --alias shake`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addServing  string
	addCalories float64
	addMacros   map[string]string
	addAliases  []string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addServing, "serving", "1 serving", "Serving size description")
	addCmd.Flags().Float64Var(&addCalories, "calories", 0, "Calories per serving")
	addCmd.Flags().StringToStringVar(&addMacros, "macro", nil, "Macronutrient grams per serving, e.g. protein=30 (repeatable)")
	addCmd.Flags().StringArrayVar(&addAliases, "alias", nil, "Alternative name (repeatable)")
	_ = addCmd.MarkFlagRequired("calories")
}

func runAdd(cmd *cobra.Command, args []string) error {
	macros, err := parseMacros(addMacros)
	if err != nil {
		return err
	}

	item, err := globalTracker.RegisterCustomFood(args[0], addServing, addCalories, macros, addAliases)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", okStyle.Render("Added"), item.Name, describeItem(item))
	return nil
}

func parseMacros(raw map[string]string) (map[string]float64, error) {
	macros := make(map[string]float64, len(raw))
	for k, v := range raw {
		grams, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --macro %s=%s: not a number", k, v)
		}
		macros[k] = grams
	}
	return macros, nil
}
