package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/store"
)

// handleLogConsumption logs a session. The absorbed dose is always
// computed server-side; a client-supplied dose would be ignored anyway
// since the request carries only raw inputs.
func (s *Server) handleLogConsumption(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		ProductType  string   `json:"product_type"`
		Strain       string   `json:"strain"`
		Amount       float64  `json:"amount"`
		THCPercent   *float64 `json:"thc_percent"`
		Method       string   `json:"method"`
		EffectRating int      `json:"effect_rating"`
		Symptom      string   `json:"symptom"`
		Notes        string   `json:"notes"`
		ConsumedAt   string   `json:"consumed_at"` // RFC3339, defaults to now
		DeductStash  *bool    `json:"deduct_stash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductType == "" || req.Method == "" {
		writeError(w, http.StatusBadRequest, "product_type and method required")
		return
	}
	if err := engine.ValidateRating(req.EffectRating); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	consumedAt := time.Now()
	if req.ConsumedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ConsumedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "consumed_at must be RFC3339")
			return
		}
		consumedAt = t
	}

	user, err := s.db.GetOrCreateUser(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Backfill concentration from the matching stash item before falling
	// back to the configured default.
	concentration := req.THCPercent
	if concentration == nil && req.Strain != "" {
		if item, err := s.db.GetStashItem(userID, req.ProductType, req.Strain); err == nil && item != nil {
			concentration = item.THCPercent
		}
	}

	dose, err := engine.AbsorbedDose(s.cfg, req.Amount, concentration, req.Method)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var warnings []string
	if dose.AssumedConcentration {
		warnings = append(warnings, fmt.Sprintf("concentration not specified, assuming %g%%", dose.ConcentrationPct))
	}

	pct := dose.ConcentrationPct
	entry := store.Entry{
		UserID:       userID,
		ProductType:  req.ProductType,
		Strain:       req.Strain,
		Amount:       req.Amount,
		THCPercent:   &pct,
		Method:       req.Method,
		AbsorbedMg:   dose.AbsorbedMg,
		EffectRating: req.EffectRating,
		Symptom:      req.Symptom,
		Notes:        req.Notes,
		ConsumedAt:   consumedAt.UnixMilli(),
	}
	if err := s.db.InsertEntry(&entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.DeductStash == nil || *req.DeductStash {
		if _, err := s.db.RemoveStash(userID, req.ProductType, req.Strain, req.Amount); err != nil {
			// A missing or short stash item is a bookkeeping gap, not a
			// reason to reject the log.
			warnings = append(warnings, fmt.Sprintf("could not deduct from stash: %v", err))
		}
	}

	limitMg := s.defaultLimitMg
	if user.MaxDailyTHCMg != nil {
		limitMg = *user.MaxDailyTHCMg
	}
	if limitMg > 0 {
		loc := s.userLocation(user)
		day := consumedAt.In(loc)
		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		consumed, err := s.db.AbsorbedSince(userID, midnight.UnixMilli())
		if err == nil {
			switch st := engine.CheckDailyLimit(s.cfg, consumed, limitMg); st.State {
			case engine.LimitExceeded:
				warnings = append(warnings, fmt.Sprintf("daily limit exceeded: %.1fmg of %.0fmg", st.ConsumedMg, st.LimitMg))
			case engine.LimitApproaching:
				warnings = append(warnings, fmt.Sprintf("approaching daily limit: %.1fmg remaining", st.RemainingMg))
			}
		}
	}

	if lowStash, err := s.db.LowStashWarnings(userID); err == nil {
		warnings = append(warnings, lowStash...)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                    entry.ID,
		"absorbed_mg":           dose.AbsorbedMg,
		"concentration_pct":     dose.ConcentrationPct,
		"assumed_concentration": dose.AssumedConcentration,
		"warnings":              warnings,
	})
}

func (s *Server) handleListConsumption(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 50)

	entries, err := s.db.ListEntries(userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type entryJSON struct {
		ID           int64    `json:"id"`
		ProductType  string   `json:"product_type"`
		Strain       string   `json:"strain,omitempty"`
		Amount       float64  `json:"amount"`
		THCPercent   *float64 `json:"thc_percent,omitempty"`
		Method       string   `json:"method"`
		AbsorbedMg   float64  `json:"absorbed_mg"`
		EffectRating int      `json:"effect_rating,omitempty"`
		Symptom      string   `json:"symptom,omitempty"`
		Notes        string   `json:"notes,omitempty"`
		ConsumedAt   string   `json:"consumed_at"`
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			ID:           e.ID,
			ProductType:  e.ProductType,
			Strain:       e.Strain,
			Amount:       e.Amount,
			THCPercent:   e.THCPercent,
			Method:       e.Method,
			AbsorbedMg:   e.AbsorbedMg,
			EffectRating: e.EffectRating,
			Symptom:      e.Symptom,
			Notes:        e.Notes,
			ConsumedAt:   time.UnixMilli(e.ConsumedAt).UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (s *Server) handleListStash(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	items, err := s.db.ListStash(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": stashJSON(items)})
}

func (s *Server) handleAddStash(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		ProductType string   `json:"product_type"`
		Strain      string   `json:"strain"`
		Amount      float64  `json:"amount"`
		THCPercent  *float64 `json:"thc_percent"`
		Notes       string   `json:"notes"`
		Set         bool     `json:"set"` // true: set exact amount instead of adding
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductType == "" {
		writeError(w, http.StatusBadRequest, "product_type required")
		return
	}

	var item *store.StashItem
	var err error
	if req.Set {
		item, err = s.db.SetStash(userID, req.ProductType, req.Strain, req.Amount, req.THCPercent)
	} else {
		item, err = s.db.AddStash(userID, req.ProductType, req.Strain, req.Amount, req.THCPercent, req.Notes)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stashItemJSON(*item))
}

func (s *Server) handleRemoveStash(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		ProductType string  `json:"product_type"`
		Strain      string  `json:"strain"`
		Amount      float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	item, err := s.db.RemoveStash(userID, req.ProductType, req.Strain, req.Amount)
	if errors.Is(err, store.ErrStashNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, store.ErrInsufficientStash) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stashItemJSON(*item))
}

func (s *Server) handleSetLimit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		MaxDailyMg *float64 `json:"max_daily_mg"` // null clears the limit
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.db.SetDailyLimit(userID, req.MaxDailyMg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddAlert(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req struct {
		TargetType string  `json:"target_type"`
		Threshold  float64 `json:"threshold"`
		Message    string  `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TargetType == "" {
		writeError(w, http.StatusBadRequest, "target_type required")
		return
	}

	alert, err := s.db.AddLowStashAlert(userID, req.TargetType, req.Threshold, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": alert.ID})
}

func (s *Server) handleSearchStrains(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "strain catalog not loaded")
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": s.catalog.Search(q, queryInt(r, "limit", 10)),
	})
}

func (s *Server) handleGetStrain(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "strain catalog not loaded")
		return
	}
	strain, ok := s.catalog.Get(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "strain not found")
		return
	}
	writeJSON(w, http.StatusOK, strain)
}

func (s *Server) handleRecommendStrains(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "strain catalog not loaded")
		return
	}
	condition := r.URL.Query().Get("condition")
	if condition == "" {
		writeError(w, http.StatusBadRequest, "condition parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"condition": condition,
		"results":   s.catalog.ForCondition(condition, queryInt(r, "limit", 5), s.rng),
	})
}

type stashItemView struct {
	ID          int64    `json:"id"`
	ProductType string   `json:"product_type"`
	Strain      string   `json:"strain,omitempty"`
	Amount      float64  `json:"amount"`
	THCPercent  *float64 `json:"thc_percent,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

func stashItemJSON(it store.StashItem) stashItemView {
	return stashItemView{
		ID:          it.ID,
		ProductType: it.ProductType,
		Strain:      it.Strain,
		Amount:      it.Amount,
		THCPercent:  it.THCPercent,
		Notes:       it.Notes,
	}
}

func stashJSON(items []store.StashItem) []stashItemView {
	out := make([]stashItemView, 0, len(items))
	for _, it := range items {
		out = append(out, stashItemJSON(it))
	}
	return out
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
