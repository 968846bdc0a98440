package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutribot-app/nutribot/internal/domain"
)

func init() {
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log TEXT...",
	Short: "Log a meal by describing it",
	Long:  `Describe what you ate; the daemon's AI analyzer estimates nutrients, rates the plate, and applies rewards.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	var resp struct {
		Log          domain.DailyLogItem       `json:"log"`
		AnalysisText string                    `json:"analysisText"`
		State        *domain.GamificationState `json:"state"`
		Rewards      domain.Reward             `json:"rewards"`
		Warning      string                    `json:"warning"`
	}
	if err := apiPost("/api/logs", map[string]string{"message": message}, &resp); err != nil {
		return err
	}

	if resp.AnalysisText != "" {
		fmt.Println(resp.AnalysisText)
		fmt.Println()
	}

	if resp.Log.ID == "" {
		// Analyzer answered but found no meal to log.
		return nil
	}

	if pr := resp.Log.PlateRating; pr != nil {
		fmt.Printf("Plate: %d (%s)", pr.Score, pr.Grade)
		if len(pr.Tags) > 0 {
			fmt.Printf("  %s", strings.Join(pr.Tags, ", "))
		}
		fmt.Println()
	}

	if !resp.Rewards.IsZero() {
		fmt.Printf("Rewards: +%d energy, +%d balance, +%d mindfulness\n",
			resp.Rewards.Energy, resp.Rewards.Balance, resp.Rewards.Mindfulness)
	}
	if resp.State != nil {
		fmt.Printf("Streak: %d days\n", resp.State.Streak.Current)
	}
	if resp.Warning != "" {
		fmt.Println("Warning:", resp.Warning)
	}
	return nil
}
