// Package cli implements the NutriBot command-line interface using Cobra.
// `serve` runs the daemon; the other subcommands talk to a running
// daemon over its HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nutribot",
	Short: "NutriBot — Meal logging with a progression engine",
	Long: `NutriBot is a meal-logging assistant.
Log what you eat, get AI nutrient analysis and a plate rating, and
watch your streaks, quests, and season progress grow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
