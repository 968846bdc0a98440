package rating

import "github.com/nutribot-app/nutribot/internal/domain"

// Checklist thresholds. The checklist's quality cutoff (score ≥ 80,
// grade A/S) is deliberately stricter than the day-completion gate
// (score > 70): do not conflate the two.
const (
	checklistMinMeals     = 2
	checklistQualityScore = 80
	dayCompletionScore    = 70
)

// DailyChecklistStatus derives the three daily checklist tasks from the
// day's logs.
func DailyChecklistStatus(logs []domain.DailyLogItem) []domain.ChecklistTask {
	hasQuality := false
	hasPhoto := false
	for _, l := range logs {
		if l.Score() >= checklistQualityScore {
			hasQuality = true
		}
		if l.HasPhoto() {
			hasPhoto = true
		}
	}

	return []domain.ChecklistTask{
		{ID: "task_min_meals", Label: "Минимум 2 приема пищи", IsCompleted: len(logs) >= checklistMinMeals},
		{ID: "task_quality", Label: "1 идеальная тарелка (Grade A/S)", IsCompleted: hasQuality},
		{ID: "task_photo", Label: "Фото еды", IsCompleted: hasPhoto},
	}
}

// CheckDayCompletion is the authoritative gate for map-node completion and
// streak increment: at least 2 meals, at least one photo, and at least one
// meal scoring above 70.
func CheckDayCompletion(logs []domain.DailyLogItem) bool {
	if len(logs) < checklistMinMeals {
		return false
	}

	hasPhoto := false
	hasQuality := false
	for _, l := range logs {
		if l.HasPhoto() {
			hasPhoto = true
		}
		if l.Score() > dayCompletionScore {
			hasQuality = true
		}
	}
	return hasPhoto && hasQuality
}

// DayTotals sums the day's nutrients (for the analyzer context and the
// achievement predicates).
func DayTotals(logs []domain.DailyLogItem) domain.DayStats {
	var s domain.DayStats
	for _, l := range logs {
		s.Calories += l.Calories
		s.Protein += l.Protein
		s.Fat += l.Fat
		s.Carbs += l.Carbs
		s.Fiber += l.Fiber
		s.Omega3 += l.Omega3
		s.Omega6 += l.Omega6
		s.Iron += l.Iron
	}
	return s
}
