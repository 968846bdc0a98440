package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nutribot-app/nutribot/internal/app/rating"
	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── Meal Diary ─────────────────────────────────────────────────────────────

// createLogRequest is the POST /api/logs body. Either nutrients are
// supplied directly (client already analyzed the meal) or a message is
// sent for AI analysis.
type createLogRequest struct {
	Name      string               `json:"name"`
	Message   string               `json:"message"`
	History   []domain.ChatMessage `json:"history,omitempty"`
	Nutrients *domain.NutrientData `json:"nutrients,omitempty"`
	Note      string               `json:"note,omitempty"`
	Images    []string             `json:"images,omitempty"` // base64 data URLs
	Timestamp *time.Time           `json:"timestamp,omitempty"`
}

// createLogResponse carries the saved log plus the gamification outcome.
// Warning is set when the log was saved but the reward processing failed:
// the meal record is never lost to a gamification error.
type createLogResponse struct {
	Log          domain.DailyLogItem       `json:"log"`
	AnalysisText string                    `json:"analysisText,omitempty"`
	State        *domain.GamificationState `json:"state,omitempty"`
	Rewards      domain.Reward             `json:"rewards"`
	Warning      string                    `json:"warning,omitempty"`
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Nutrients == nil && req.Message == "" {
		writeError(w, http.StatusBadRequest, "either nutrients or message is required")
		return
	}

	ctx := r.Context()
	uid := userID(r)

	now := time.Now()
	if req.Timestamp != nil {
		now = *req.Timestamp
	}

	item := domain.DailyLogItem{
		ID:        uuid.New().String(),
		Timestamp: now,
		Name:      req.Name,
		Note:      req.Note,
	}

	// Upload photos first so the analyzer can see them.
	for _, dataURL := range req.Images {
		if s.uploader == nil {
			break
		}
		key, url, err := s.uploader.UploadDataURL(ctx, dataURL)
		if err != nil {
			writeError(w, http.StatusBadRequest, "image upload: "+err.Error())
			return
		}
		item.Images = append(item.Images, url)
		item.ImageIDs = append(item.ImageIDs, key)
	}

	analysisText := ""
	if req.Nutrients != nil {
		item.NutrientData = *req.Nutrients
	} else {
		if s.analyzer == nil {
			writeError(w, http.StatusServiceUnavailable, "meal analyzer not configured")
			return
		}
		day := now.Format("2006-01-02")
		earlier, err := s.db.ListLogsForDay(ctx, uid, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		totals := rating.DayTotals(earlier)

		result, err := s.analyzer.AnalyzeMeal(ctx, domain.AnalyzeRequest{
			History:   req.History,
			Message:   req.Message,
			ImageURLs: item.Images,
			DayTotals: &totals,
		})
		if err != nil {
			writeError(w, http.StatusBadGateway, "analysis failed: "+err.Error())
			return
		}
		analysisText = result.Text
		if result.Nutrients == nil {
			// Plain chat reply — nothing to log.
			writeJSON(w, http.StatusOK, map[string]string{"analysisText": result.Text})
			return
		}
		item.NutrientData = *result.Nutrients
		if item.Name == "" {
			item.Name = result.MealName
		}
	}

	goals, err := s.db.LoadGoals(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plate := rating.CalculatePlateRating(item.NutrientData, &goals)
	item.PlateRating = &plate
	item.AIAnalysis = analysisText

	// Persist the log FIRST. Gamification runs second, so a reward failure
	// never loses the meal record.
	if err := s.db.InsertLog(ctx, uid, item); err != nil {
		writeError(w, http.StatusInternalServerError, "save log: "+err.Error())
		return
	}

	day := item.Timestamp.Format("2006-01-02")
	dailyLogs, err := s.db.ListLogsForDay(ctx, uid, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := createLogResponse{Log: item, AnalysisText: analysisText}
	state, rewards, err := s.engine.ProcessNewLog(ctx, uid, item, dailyLogs, goals)
	if err != nil {
		log.Printf("[api] gamification failed for %s: %v", uid, err)
		resp.Warning = "meal saved, reward processing failed"
	} else {
		resp.State = state
		resp.Rewards = rewards
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}

	logs, err := s.db.ListLogsForDay(r.Context(), userID(r), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []domain.DailyLogItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "logs": logs})
}

// handleWeekStats aggregates the last 7 calendar days.
func (s *Server) handleWeekStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	since := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)

	logs, err := s.db.ListLogsSince(r.Context(), userID(r), since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byDay := make(map[string][]domain.DailyLogItem)
	for _, l := range logs {
		key := l.Timestamp.Format("2006-01-02")
		byDay[key] = append(byDay[key], l)
	}

	stats := make([]domain.DayStats, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		ds := rating.DayTotals(byDay[day])
		ds.Date = day
		stats = append(stats, ds)
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": stats})
}

// ─── Goals ──────────────────────────────────────────────────────────────────

func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.db.LoadGoals(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleSaveGoals(w http.ResponseWriter, r *http.Request) {
	var goals domain.UserGoals
	if err := json.NewDecoder(r.Body).Decode(&goals); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.db.SaveGoals(r.Context(), userID(r), goals); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, goals)
}
