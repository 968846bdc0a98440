package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutribot-app/nutribot/internal/app/game"
	"github.com/nutribot-app/nutribot/internal/app/rating"
	"github.com/nutribot-app/nutribot/internal/domain"
)

// ─── Gamification ───────────────────────────────────────────────────────────

// gameStateResponse decorates the raw state with derived progression
// views so clients don't duplicate the level math.
type gameStateResponse struct {
	State       *domain.GamificationState `json:"state"`
	Level       domain.LevelInfo          `json:"level"`
	Rank        domain.Rank               `json:"rank"`
	NextRank    *domain.Rank              `json:"nextRank,omitempty"`
	ChestOpen   bool                      `json:"chestAvailable"`
	DayComplete bool                      `json:"dayComplete"`
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r)

	state, err := s.engine.InitializeOrGetState(ctx, uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logs, err := s.db.ListLogsForDay(ctx, uid, time.Now().Format("2006-01-02"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, gameStateResponse{
		State:       state,
		Level:       game.CalculateLevelInfo(state.TotalExp),
		Rank:        game.CurrentRank(state.TotalExp),
		NextRank:    game.NextRank(state.TotalExp),
		ChestOpen:   game.ChestAvailable(state, logs),
		DayComplete: rating.CheckDayCompletion(logs),
	})
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.ListLogsForDay(r.Context(), userID(r), time.Now().Format("2006-01-02"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":       rating.DailyChecklistStatus(logs),
		"dayComplete": rating.CheckDayCompletion(logs),
	})
}

func (s *Server) handleOpenChest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r)

	logs, err := s.db.ListLogsForDay(ctx, uid, time.Now().Format("2006-01-02"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state, reward, err := s.engine.OpenDailyChest(ctx, uid, logs)
	switch {
	case errors.Is(err, domain.ErrChestAlreadyOpened):
		writeError(w, http.StatusConflict, "daily chest already opened")
		return
	case errors.Is(err, domain.ErrChestLocked):
		writeError(w, http.StatusForbidden, "complete the daily checklist first")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"state": state, "reward": reward})
}

func (s *Server) handleRewardHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := s.db.ListRewardEvents(r.Context(), userID(r), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// achievementView pairs an achievement definition with whether the user
// has unlocked it.
type achievementView struct {
	domain.Achievement
	Unlocked bool `json:"unlocked"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.InitializeOrGetState(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unlocked := make(map[string]bool, len(state.UnlockedAchievements))
	for _, id := range state.UnlockedAchievements {
		unlocked[id] = true
	}

	defs := game.AllAchievements()
	views := make([]achievementView, 0, len(defs))
	for _, def := range defs {
		views = append(views, achievementView{
			Achievement: def.Achievement,
			Unlocked:    unlocked[def.ID],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": views})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := s.db.ListPendingNotifications(r.Context(), userID(r), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.db.MarkNotificationShown(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
