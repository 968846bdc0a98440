package ai

import (
	"context"

	"github.com/nutribot-app/nutribot/internal/domain"
)

// MockAnalyzer returns canned results for tests and offline development.
type MockAnalyzer struct {
	Result *domain.AnalyzeResult
	Err    error

	// Calls records every request for assertions.
	Calls []domain.AnalyzeRequest
}

// NewMockAnalyzer returns a mock with a plausible default result.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		Result: &domain.AnalyzeResult{
			Text:     "Отличный выбор! Примерно 450 ккал.",
			MealName: "Стейк лосося с рисом",
			Nutrients: &domain.NutrientData{
				Calories: 450, Protein: 35, Fat: 20, Carbs: 45,
				Fiber: 2.5, Omega3: 1.5, Omega6: 0.5, Iron: 1.2,
			},
		},
	}
}

// AnalyzeMeal implements domain.MealAnalyzer.
func (m *MockAnalyzer) AnalyzeMeal(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalyzeResult, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
