package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutribot-app/nutribot/internal/domain"
	"github.com/nutribot-app/nutribot/internal/infra/ai"
)

func TestExtractNutrients_WithBlock(t *testing.T) {
	content := "Отличный обед! Курица с гречкой — хороший баланс.\n\n" +
		"```json\n{\"name\": \"Курица с гречкой\", \"calories\": 520, \"protein\": 42, \"fat\": 14, \"carbs\": 55, \"fiber\": 6, \"omega3\": 0.2, \"omega6\": 2.1, \"iron\": 3.5}\n```"

	text, n, name := ai.ExtractNutrients(content)
	if text != "Отличный обед! Курица с гречкой — хороший баланс." {
		t.Errorf("text = %q", text)
	}
	if n == nil {
		t.Fatal("nutrients = nil")
	}
	if n.Calories != 520 || n.Protein != 42 || n.Fiber != 6 {
		t.Errorf("nutrients = %+v", n)
	}
	if name != "Курица с гречкой" {
		t.Errorf("name = %q", name)
	}
}

func TestExtractNutrients_PlainChatReply(t *testing.T) {
	text, n, _ := ai.ExtractNutrients("Привет! Чем могу помочь?")
	if n != nil {
		t.Errorf("nutrients = %+v, want nil for a chat reply", n)
	}
	if text != "Привет! Чем могу помочь?" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractNutrients_MalformedBlockFallsBackToText(t *testing.T) {
	content := "Вкусно!\n```json\n{not valid json\n```"
	text, n, _ := ai.ExtractNutrients(content)
	if n != nil {
		t.Errorf("nutrients = %+v, want nil for malformed block", n)
	}
	if text == "" {
		t.Error("text should fall back to the whole reply")
	}
}

func TestExtractNutrients_UsesLastBlock(t *testing.T) {
	content := "Пример: ```json\n{\"calories\": 1}\n``` А вот итог:\n" +
		"```json\n{\"calories\": 300, \"protein\": 20}\n```"
	_, n, _ := ai.ExtractNutrients(content)
	if n == nil || n.Calories != 300 {
		t.Errorf("nutrients = %+v, want the last block", n)
	}
}

func TestExtractNutrients_LegacyIronField(t *testing.T) {
	content := "Ок\n```json\n{\"calories\": 200, \"ironTotal\": 4.2, \"hemeIron\": 1.1}\n```"
	_, n, _ := ai.ExtractNutrients(content)
	if n == nil || n.Iron != 4.2 {
		t.Errorf("iron = %+v, want legacy ironTotal honored", n)
	}
}

func TestAnalyzeMeal_EndToEnd(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		reply := "Хороший завтрак!\n```json\n{\"name\": \"Омлет\", \"calories\": 350, \"protein\": 24}\n```"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "test-model")
	result, err := c.AnalyzeMeal(context.Background(), domain.AnalyzeRequest{
		Message:   "омлет из трех яиц",
		DayTotals: &domain.DayStats{Calories: 500, Protein: 30},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if result.MealName != "Омлет" {
		t.Errorf("meal name = %q", result.MealName)
	}
	if result.Nutrients == nil || result.Nutrients.Calories != 350 {
		t.Errorf("nutrients = %+v", result.Nutrients)
	}
	if result.Text != "Хороший завтрак!" {
		t.Errorf("text = %q", result.Text)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	// system + user turn.
	if len(gotReq.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(gotReq.Messages))
	}
	var userText string
	if err := json.Unmarshal(gotReq.Messages[1].Content, &userText); err != nil {
		t.Fatalf("user content: %v", err)
	}
	// Day totals are prefixed onto the user message.
	if want := "[Текущие итоги дня: 500ккал, Б:30, Ж:0, У:0]\nомлет из трех яиц"; userText != want {
		t.Errorf("user text = %q, want %q", userText, want)
	}
}

func TestAnalyzeMeal_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, "k", "m")
	_, err := c.AnalyzeMeal(context.Background(), domain.AnalyzeRequest{Message: "еда"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalyzeMeal_HistoryWindowTruncated(t *testing.T) {
	var messageCount int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []json.RawMessage `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		messageCount = len(req.Messages)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ок"}}},
		})
	}))
	defer srv.Close()

	history := make([]domain.ChatMessage, 20)
	for i := range history {
		history[i] = domain.ChatMessage{Role: "user", Content: "сообщение"}
	}

	c := ai.NewClient(srv.URL, "k", "m")
	if _, err := c.AnalyzeMeal(context.Background(), domain.AnalyzeRequest{Message: "еда", History: history}); err != nil {
		t.Fatal(err)
	}

	// system + 6 history turns + current user message.
	if messageCount != 8 {
		t.Errorf("messages sent = %d, want 8 (windowed history)", messageCount)
	}
}
