// ABOUTME: CLI command for listing the food catalog.
// ABOUTME: Prints every known food, including custom ones, with nutrition per serving.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "List known foods",
	Long:  "List every food in the catalog, including custom foods.",
	Args:  cobra.NoArgs,
	RunE:  runFoods,
}

var foodsFilter string

func init() {
	rootCmd.AddCommand(foodsCmd)
	foodsCmd.Flags().StringVar(&foodsFilter, "filter", "", "Only show foods whose name contains this text")
}

func runFoods(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	filter := strings.ToLower(foodsFilter)

	count := 0
	for _, item := range globalTracker.KnownItems() {
		if filter != "" && !strings.Contains(strings.ToLower(item.Name), filter) {
			continue
		}
		count++
		_, _ = fmt.Fprintf(out, "%-28s %s\n", item.Name, describeItem(item))
	}

	if count == 0 {
		_, _ = fmt.Fprintln(out, "No known foods.")
	}
	return nil
}
