package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/mossline/stashtrack/internal/store"
)

// seedDailyEntries inserts one rated entry per day for the last n days.
func seedDailyEntries(t *testing.T, db *store.DB, userID string, n int, mgPerDay float64, rating int) {
	t.Helper()
	if _, err := db.GetOrCreateUser(userID); err != nil {
		t.Fatalf("create user: %v", err)
	}
	now := time.Now().UTC()
	for i := 1; i <= n; i++ {
		e := store.Entry{
			UserID:       userID,
			ProductType:  "flower",
			Amount:       1,
			Method:       "smoke",
			AbsorbedMg:   mgPerDay,
			EffectRating: rating,
			ConsumedAt:   now.AddDate(0, 0, -i).UnixMilli(),
		}
		if err := db.InsertEntry(&e); err != nil {
			t.Fatalf("seed entry %d: %v", i, err)
		}
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv, db := testServer(t)
	seedDailyEntries(t, db, "u1", 3, 50, 4)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/consumption/summary?days=7", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["period_days"] != 7.0 {
		t.Errorf("period_days = %v, want 7", body["period_days"])
	}
	summary := body["summary"].(map[string]any)
	if summary["sessions"] != 3.0 {
		t.Errorf("sessions = %v, want 3", summary["sessions"])
	}
	if summary["total_absorbed_mg"] != 150.0 {
		t.Errorf("total_absorbed_mg = %v, want 150", summary["total_absorbed_mg"])
	}
}

func TestTrendEndpointInsufficientData(t *testing.T) {
	srv, db := testServer(t)
	seedDailyEntries(t, db, "u1", 3, 50, 4)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/trend", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (insufficient data is not an error)", code)
	}
	if body["status"] != "insufficient_data" {
		t.Errorf("status field = %v, want insufficient_data", body["status"])
	}
}

func TestTrendEndpointAnalyzed(t *testing.T) {
	srv, db := testServer(t)
	seedDailyEntries(t, db, "u1", 12, 50, 4)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/trend", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "analyzed" {
		t.Fatalf("status field = %v, body %v", body["status"], body)
	}
	assessment := body["assessment"].(map[string]any)
	if assessment["status"] != "stable" {
		t.Errorf("trend = %v, want stable for constant usage", assessment["status"])
	}
}

func TestRiskEndpoint(t *testing.T) {
	srv, db := testServer(t)
	seedDailyEntries(t, db, "u1", 16, 50, 4)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/risk", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "analyzed" {
		t.Fatalf("status field = %v, body %v", body["status"], body)
	}
	assessment := body["assessment"].(map[string]any)
	if assessment["risk"] != "minimal" {
		t.Errorf("risk = %v, want minimal for flat usage", assessment["risk"])
	}
}

func TestDepletionEndpoint(t *testing.T) {
	srv, db := testServer(t)

	// Empty stash comes back as a status, not an error.
	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/depletion", nil)
	if code != http.StatusOK || body["status"] != "empty_stash" {
		t.Fatalf("empty stash: status %d body %v", code, body)
	}

	pct := 20.0
	if _, err := db.AddStash("u1", "flower", "Blue Dream", 7.0, &pct, ""); err != nil {
		t.Fatalf("seed stash: %v", err)
	}

	// Stash but no usage history.
	code, body = do(t, srv, http.MethodGet, "/api/users/u1/analytics/depletion", nil)
	if code != http.StatusOK || body["status"] != "no_usage_data" {
		t.Fatalf("no usage: status %d body %v", code, body)
	}

	seedDailyEntries(t, db, "u1", 10, 300, 4)
	code, body = do(t, srv, http.MethodGet, "/api/users/u1/analytics/depletion", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status %d body %v", code, body)
	}
	predictions := body["predictions"].([]any)
	if len(predictions) != 1 {
		t.Fatalf("got %d predictions, want 1", len(predictions))
	}
	p := predictions[0].(map[string]any)
	if p["urgency"] == "" || p["days_remaining"].(float64) <= 0 {
		t.Errorf("prediction = %v", p)
	}
}

func TestReorderEndpoint(t *testing.T) {
	srv, db := testServer(t)

	pct := 20.0
	if _, err := db.AddStash("u1", "flower", "Blue Dream", 1.0, &pct, ""); err != nil {
		t.Fatalf("seed stash: %v", err)
	}
	// 3000 mg over 30 days is 100 mg/day; flower's share burns 0.3 g/day,
	// so 1 g lasts about 3.3 days against a 3-day lead time.
	seedDailyEntries(t, db, "u1", 10, 300, 4)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/reorder", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %v", body["status"])
	}
	suggestions := body["suggestions"].([]any)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	sg := suggestions[0].(map[string]any)
	if action := sg["action"]; action != "reorder_now" && action != "reorder_soon" {
		t.Errorf("action = %v, want reorder_now or reorder_soon", action)
	}
	summary := body["summary"].(map[string]any)
	if summary["total"] != 1.0 {
		t.Errorf("summary total = %v, want 1", summary["total"])
	}
}

func TestBreakEndpoint(t *testing.T) {
	srv, db := testServer(t)

	// No usage at all still yields the minimal suggestion.
	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/break", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["suggested_days"] != 2.0 || body["intensity"] != "minimal" {
		t.Errorf("no usage: %v", body)
	}

	// 3600 mg over 30 days is 120 mg/day: heavy usage, full break.
	seedDailyEntries(t, db, "u2", 12, 300, 4)
	code, body = do(t, srv, http.MethodGet, "/api/users/u2/analytics/break", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["suggested_days"] != 7.0 || body["intensity"] != "full" {
		t.Errorf("heavy usage: %v", body)
	}
}

func TestDoseAdjustmentEndpoint(t *testing.T) {
	srv, db := testServer(t)

	code, body := do(t, srv, http.MethodGet, "/api/users/u1/analytics/dosage", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["recommendation"] != "start_low" {
		t.Errorf("no ratings: recommendation = %v, want start_low", body["recommendation"])
	}

	seedDailyEntries(t, db, "u2", 5, 50, 5)
	code, body = do(t, srv, http.MethodGet, "/api/users/u2/analytics/dosage", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["recommendation"] != "maintain" {
		t.Errorf("strong ratings: recommendation = %v, want maintain", body["recommendation"])
	}
}
