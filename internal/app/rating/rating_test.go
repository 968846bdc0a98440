package rating_test

import (
	"testing"

	"github.com/nutribot-app/nutribot/internal/app/rating"
	"github.com/nutribot-app/nutribot/internal/domain"
)

func rate(n domain.NutrientData) domain.PlateRating {
	goals := domain.DefaultGoals()
	return rating.CalculatePlateRating(n, &goals)
}

func TestPlateRating_BalancedMealScoresS(t *testing.T) {
	// Protein-rich, fibrous, omega-3 meal: 70 +15 +15 +5 = 105, clamped.
	pr := rate(domain.NutrientData{
		Calories: 300, Protein: 30, Fat: 10, Carbs: 20, Fiber: 9, Omega3: 0.6,
	})
	if pr.Score != 100 {
		t.Errorf("score = %d, want 100", pr.Score)
	}
	if pr.Grade != domain.GradeS {
		t.Errorf("grade = %s, want S", pr.Grade)
	}
	if pr.Color != "text-purple-400" {
		t.Errorf("color = %q, want text-purple-400", pr.Color)
	}
}

func TestPlateRating_EmptyNutrientsStayModest(t *testing.T) {
	// All-zero input: no penalties fire (calories guard), base score holds.
	pr := rate(domain.NutrientData{})
	if pr.Score != 70 {
		t.Errorf("score = %d, want 70", pr.Score)
	}
	if pr.Grade != domain.GradeB {
		t.Errorf("grade = %s, want B", pr.Grade)
	}
}

func TestPlateRating_SugarSpike(t *testing.T) {
	// Refined carbs with no fiber or protein: 70 -10 (protein) -10 (spike).
	pr := rate(domain.NutrientData{Calories: 400, Protein: 3, Carbs: 80, Fiber: 0.5})
	if pr.Score != 50 {
		t.Errorf("score = %d, want 50", pr.Score)
	}
	if pr.Grade != domain.GradeC {
		t.Errorf("grade = %s, want C", pr.Grade)
	}

	found := false
	for _, tag := range pr.Tags {
		if tag == "Сахарный пик" {
			found = true
		}
	}
	if !found {
		t.Errorf("tags = %v, want sugar spike tag", pr.Tags)
	}
}

func TestPlateRating_FattyMealPenalty(t *testing.T) {
	// 40g fat in a 500 kcal meal: fat ratio 0.72 > 0.6.
	pr := rate(domain.NutrientData{Calories: 500, Protein: 20, Fat: 40})
	// 70 +5 (protein ratio 0.16) -10 (fat) = 65
	if pr.Score != 65 {
		t.Errorf("score = %d, want 65", pr.Score)
	}
}

func TestPlateRating_AbsoluteProteinOverride(t *testing.T) {
	// Protein > 25g earns the bonus even when the ratio is low.
	pr := rate(domain.NutrientData{Calories: 900, Protein: 26})
	found := false
	for _, tag := range pr.Tags {
		if tag == "Сила белка" {
			found = true
		}
	}
	if !found {
		t.Errorf("tags = %v, want protein tag for 26g", pr.Tags)
	}
}

func TestPlateRating_OversizedMeal(t *testing.T) {
	small := rate(domain.NutrientData{Calories: 1200, Protein: 40})
	big := rate(domain.NutrientData{Calories: 1201, Protein: 40})
	if big.Score != small.Score-5 {
		t.Errorf("oversized penalty: %d vs %d, want -5 above 1200 kcal", big.Score, small.Score)
	}
}

func TestPlateRating_ScoreNeverNegative(t *testing.T) {
	pr := rate(domain.NutrientData{Calories: 2000, Protein: 1, Fat: 160, Carbs: 100, Fiber: 0})
	if pr.Score < 0 {
		t.Errorf("score = %d, must be clamped at 0", pr.Score)
	}
	if pr.Grade != domain.GradeD {
		t.Errorf("grade = %s, want D for score %d", pr.Grade, pr.Score)
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		nutrients domain.NutrientData
		wantGrade domain.Grade
	}{
		// 70 + 15 (fiber) = 85 → A
		{domain.NutrientData{Calories: 300, Protein: 9, Fiber: 8}, domain.GradeA},
		// 70 + 8 (fiber) = 78 → B
		{domain.NutrientData{Calories: 300, Protein: 9, Fiber: 4}, domain.GradeB},
	}
	for _, tt := range tests {
		pr := rate(tt.nutrients)
		if pr.Grade != tt.wantGrade {
			t.Errorf("grade for %+v = %s (score %d), want %s", tt.nutrients, pr.Grade, pr.Score, tt.wantGrade)
		}
	}
}
