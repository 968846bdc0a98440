// Package ai implements the meal analyzer over an OpenAI-compatible
// chat-completions endpoint. The model replies in conversational Russian
// and appends a fenced JSON block with the structured nutrient estimate;
// the client extracts that block leniently — absent fields stay zero.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nutribot-app/nutribot/internal/domain"
	"github.com/nutribot-app/nutribot/internal/infra/metrics"
)

const systemPrompt = `Ты - NutriBot, ИИ-эксперт по нутрициологии. Твоя цель - анализировать еду по фото или текстовому описанию.

Для каждого сообщения пользователя:
1. Определи блюдо/продукты. Если фото несколько, проанализируй ВСЕ блюда и дай СУММАРНУЮ оценку.
2. Оцени калории (ккал), белки/жиры/углеводы (г), клетчатку (г), Омега-3 и Омега-6 (г), железо (мг). Если данных нет, дай экспертную оценку; если нутриента нет, пиши 0.
3. Отвечай в дружелюбном стиле на русском языке.
4. ВАЖНО: добавь JSON блок в самом конце сообщения, обернутый в тройные обратные кавычки:
` + "```json\n" + `{"name": "...", "calories": 0, "protein": 0, "fat": 0, "carbs": 0, "fiber": 0, "omega3": 0, "omega6": 0, "iron": 0}
` + "```\n" + `Если сообщение не связано с едой, отвечай без JSON.`

// historyWindow caps how many past turns are sent to the model.
const historyWindow = 6

// Client talks to an OpenAI-compatible API. Implements domain.MealAnalyzer.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates an analyzer client. baseURL is the API root
// (e.g. "https://api.openai.com/v1").
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// ─── Wire types (OpenAI chat completions) ───────────────────────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string         `json:"role"`
	Content any            `json:"content"` // string, or []contentPart with images
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeMeal sends the meal description to the model and parses the
// structured nutrient block from the reply.
func (c *Client) AnalyzeMeal(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalyzeResult, error) {
	start := time.Now()
	result, err := c.analyze(ctx, req)
	metrics.AnalyzeLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalyzeFailures.Inc()
	}
	return result, err
}

func (c *Client) analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.AnalyzeResult, error) {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		role := m.Role
		if role != "user" {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}

	userText := req.Message
	if req.DayTotals != nil {
		userText = fmt.Sprintf("[Текущие итоги дня: %.0fккал, Б:%.0f, Ж:%.0f, У:%.0f]\n%s",
			req.DayTotals.Calories, req.DayTotals.Protein, req.DayTotals.Fat, req.DayTotals.Carbs, userText)
	}

	if len(req.ImageURLs) == 0 {
		messages = append(messages, chatMessage{Role: "user", Content: userText})
	} else {
		parts := []contentPart{{Type: "text", Text: userText}}
		for _, u := range req.ImageURLs {
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: u}})
		}
		messages = append(messages, chatMessage{Role: "user", Content: parts})
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Temperature: 0.4})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalyzerUnavailable, err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("analyzer: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("analyzer: unexpected status %d", resp.StatusCode)
	}

	content := parsed.Choices[0].Message.Content
	text, nutrients, name := ExtractNutrients(content)
	return &domain.AnalyzeResult{Text: text, Nutrients: nutrients, MealName: name}, nil
}

// nutrientBlock is the model's JSON payload. Every field is optional.
type nutrientBlock struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Omega3   float64 `json:"omega3"`
	Omega6   float64 `json:"omega6"`
	Iron     float64 `json:"iron"`
	// Older prompt revisions split iron in two.
	IronTotal float64 `json:"ironTotal"`
	HemeIron  float64 `json:"hemeIron"`
}

// ExtractNutrients splits the assistant reply into visible text and the
// structured nutrient block, if any. A reply without a parseable block is
// a plain chat answer, not an error.
func ExtractNutrients(content string) (text string, nutrients *domain.NutrientData, name string) {
	start := strings.LastIndex(content, "```json")
	if start < 0 {
		return strings.TrimSpace(content), nil, ""
	}
	rest := content[start+len("```json"):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(content), nil, ""
	}

	var block nutrientBlock
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &block); err != nil {
		return strings.TrimSpace(content), nil, ""
	}

	iron := block.Iron
	if iron == 0 {
		iron = block.IronTotal
	}
	n := &domain.NutrientData{
		Calories: block.Calories,
		Protein:  block.Protein,
		Fat:      block.Fat,
		Carbs:    block.Carbs,
		Fiber:    block.Fiber,
		Omega3:   block.Omega3,
		Omega6:   block.Omega6,
		Iron:     iron,
	}
	return strings.TrimSpace(content[:start]), n, block.Name
}
