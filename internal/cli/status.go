package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nutribot-app/nutribot/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your rank, level, streak, and today's checklist",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	var state struct {
		State       *domain.GamificationState `json:"state"`
		Level       domain.LevelInfo          `json:"level"`
		Rank        domain.Rank               `json:"rank"`
		NextRank    *domain.Rank              `json:"nextRank"`
		ChestOpen   bool                      `json:"chestAvailable"`
		DayComplete bool                      `json:"dayComplete"`
	}
	if err := apiGet("/api/game/state", &state); err != nil {
		return err
	}

	var checklist struct {
		Tasks []domain.ChecklistTask `json:"tasks"`
	}
	if err := apiGet("/api/game/checklist", &checklist); err != nil {
		return err
	}

	s := state.State
	fmt.Printf("%s — %s (level %d)\n", s.Profile.Name, state.Rank.Title, state.Level.Level)
	if state.NextRank != nil {
		fmt.Printf("  %d exp, %d to %s\n", s.TotalExp, state.NextRank.MinExp-s.TotalExp, state.NextRank.Title)
	} else {
		fmt.Printf("  %d exp (top rank)\n", s.TotalExp)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Streak\t%d days (best %d)\n", s.Streak.Current, s.Streak.Best)
	fmt.Fprintf(w, "Wallet\t%d energy, %d balance, %d mindfulness\n",
		s.Wallet.Energy, s.Wallet.Balance, s.Wallet.Mindfulness)
	fmt.Fprintf(w, "Season\tday %d of %d\n", s.CurrentDayIndex+1, domain.SeasonLength)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nToday:")
	for _, task := range checklist.Tasks {
		mark := "[ ]"
		if task.IsCompleted {
			mark = "[x]"
		}
		fmt.Printf("  %s %s\n", mark, task.Label)
	}
	if state.ChestOpen {
		fmt.Println("\nDaily chest is ready — open it in the app or POST /api/game/chest")
	}
	return nil
}
