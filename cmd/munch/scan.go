// ABOUTME: CLI command for recognising foods without logging them.
// ABOUTME: Matches one or more descriptions against the catalog and prints ranked results.
package main

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <description>...",
	Short: "Show catalog matches for meal descriptions",
	Long: `Match each description against the food catalog and print the best
matches with their confidence. Nothing is logged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

var scanTopK int

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVarP(&scanTopK, "top-k", "k", 0, "Matches per description (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	results := globalTracker.ScanDescriptions(args, topK(scanTopK))
	for i, desc := range args {
		printMatches(out, desc, results[i])
	}
	return nil
}
