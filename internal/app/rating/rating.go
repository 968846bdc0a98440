// Package rating implements the plate scoring algorithm and the daily
// checklist. Everything here is a pure function over a nutrient snapshot
// or a day's log list — no state, no side effects.
package rating

import "github.com/nutribot-app/nutribot/internal/domain"

// baseScore is the starting point before adjustments.
const baseScore = 70

// CalculatePlateRating scores a single meal's nutrient snapshot.
// Adjustments are additive and order-independent: each reads only the
// nutrients. Missing nutrient fields are zero and simply score low.
// Goals are accepted for forward compatibility; the current formula uses
// fixed thresholds.
func CalculatePlateRating(n domain.NutrientData, goals *domain.UserGoals) domain.PlateRating {
	score := baseScore
	tags := []string{}

	// Protein: ratio of protein calories to total calories.
	totalCals := n.Calories
	if totalCals == 0 {
		totalCals = 1
	}
	proteinRatio := n.Protein * 4 / totalCals

	switch {
	case proteinRatio >= 0.25 || n.Protein > 25:
		score += 15
		tags = append(tags, "Сила белка")
	case proteinRatio >= 0.15:
		score += 5
	case proteinRatio < 0.1 && totalCals > 200:
		score -= 10
		tags = append(tags, "Мало белка")
	}

	// Fiber
	switch {
	case n.Fiber >= 8:
		score += 15
		tags = append(tags, "Клетчатка++")
	case n.Fiber >= 4:
		score += 8
		tags = append(tags, "Есть клетчатка")
	}

	// Fat balance
	if n.Fat*9/totalCals > 0.6 {
		score -= 10
		tags = append(tags, "Жирновато")
	}

	// Sugar spike: high carbs with almost no fiber (rough approximation)
	if n.Carbs > 40 && n.Fiber < 2 {
		score -= 10
		tags = append(tags, "Сахарный пик")
	}

	// Omega-3 boost
	if n.Omega3 > 0.5 {
		score += 5
		tags = append(tags, "Омега-3")
	}

	// Oversized meal
	if totalCals > 1200 {
		score -= 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	grade, color := gradeFor(score)
	return domain.PlateRating{Score: score, Grade: grade, Tags: tags, Color: color}
}

// gradeFor maps a clamped score to its grade and display color.
func gradeFor(score int) (domain.Grade, string) {
	switch {
	case score >= 90:
		return domain.GradeS, "text-purple-400"
	case score >= 80:
		return domain.GradeA, "text-green-400"
	case score >= 60:
		return domain.GradeB, "text-blue-400"
	case score >= 40:
		return domain.GradeC, "text-yellow-400"
	default:
		return domain.GradeD, "text-red-400"
	}
}
