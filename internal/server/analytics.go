package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/store"
)

// Analytics handlers. Each one materializes a snapshot from the store,
// hands it to the pure engine functions with an explicit "now", and
// renders the result. Insufficient history is a 200 with a status field,
// not an error — the client's move is "keep collecting data".

const depletionPeriodDays = 30

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	days := queryInt(r, "days", 1)

	entries, loc, err := s.recentEntries(userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := engine.Summarize(entries, days, time.Now().In(loc))
	writeJSON(w, http.StatusOK, map[string]any{
		"period_days": days,
		"summary":     summary,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	days := queryInt(r, "days", 14)
	window := r.URL.Query().Get("window")
	if window == "" {
		window = engine.WindowDay
	}

	entries, loc, err := s.recentEntries(userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := engine.Aggregate(entries, window, loc)
	assessment, err := engine.AnalyzeTrend(s.cfg, summaries)
	if errors.Is(err, engine.ErrInsufficientData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "insufficient_data",
			"message": err.Error(),
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "analyzed",
		"period_days": days,
		"window":      window,
		"assessment":  assessment,
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	days := queryInt(r, "days", 21)

	entries, loc, err := s.recentEntries(userID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := engine.Aggregate(entries, engine.WindowDay, loc)
	risk, err := engine.ToleranceRisk(s.cfg, summaries)
	if errors.Is(err, engine.ErrInsufficientData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "insufficient_data",
			"message": err.Error(),
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "analyzed",
		"assessment": risk,
	})
}

func (s *Server) handleDepletion(w http.ResponseWriter, r *http.Request) {
	report, _, ok := s.depletionReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               report.Status,
		"avg_daily_dose_mg":    report.AvgDailyDoseMg,
		"analysis_period_days": depletionPeriodDays,
		"predictions":          report.Predictions,
	})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	report, now, ok := s.depletionReport(w, r)
	if !ok {
		return
	}
	if report.Status != engine.DepletionOK {
		writeJSON(w, http.StatusOK, map[string]any{"status": report.Status})
		return
	}

	suggestions := engine.SuggestReorderTiming(s.cfg, report.Predictions, now)
	critical, soon := 0, 0
	for _, sg := range suggestions {
		switch sg.Action {
		case engine.ActionReorderNow:
			critical++
		case engine.ActionReorderSoon:
			soon++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      report.Status,
		"suggestions": suggestions,
		"summary": map[string]int{
			"reorder_now":  critical,
			"reorder_soon": soon,
			"total":        len(suggestions),
		},
	})
}

func (s *Server) handleBreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	entries, loc, err := s.recentEntries(userID, depletionPeriodDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rate := engine.DailyDoseRate(entries, depletionPeriodDays, time.Now().In(loc))
	writeJSON(w, http.StatusOK, engine.SuggestBreak(s.cfg, rate))
}

func (s *Server) handleDoseAdjustment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	entries, loc, err := s.recentEntries(userID, 7)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var ratings []float64
	for _, ws := range engine.Aggregate(entries, engine.WindowDay, loc) {
		if ws.Rated() {
			ratings = append(ratings, ws.MeanEffect)
		}
	}
	writeJSON(w, http.StatusOK, engine.SuggestDoseAdjustment(ratings))
}

// depletionReport builds the depletion input snapshot and runs the
// predictor. Returns ok=false after writing an error response.
func (s *Server) depletionReport(w http.ResponseWriter, r *http.Request) (engine.DepletionReport, time.Time, bool) {
	userID := chi.URLParam(r, "userID")

	entries, loc, err := s.recentEntries(userID, depletionPeriodDays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return engine.DepletionReport{}, time.Time{}, false
	}
	items, err := s.db.ListStash(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return engine.DepletionReport{}, time.Time{}, false
	}

	now := time.Now().In(loc)
	rate := engine.DailyDoseRate(entries, depletionPeriodDays, now)
	return engine.PredictDepletion(s.cfg, items, rate, now), now, true
}

// recentEntries loads the user's entries covering the last `days` days
// along with the user's display location.
func (s *Server) recentEntries(userID string, days int) ([]store.Entry, *time.Location, error) {
	user, err := s.db.GetUser(userID)
	if err != nil {
		return nil, nil, err
	}
	loc := s.userLocation(user)

	since := time.Now().In(loc).AddDate(0, 0, -days)
	start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, loc)
	entries, err := s.db.EntriesSince(userID, start.UnixMilli())
	if err != nil {
		return nil, nil, err
	}
	return entries, loc, nil
}
