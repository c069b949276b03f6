package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/tracker"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr := tracker.New(docstore.NewMemory(), log)
	return New(tr, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func createSchedule(t *testing.T, s *Server) models.Schedule {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/schedules", map[string]any{
		"name": "Push Pull Legs",
		"exercises": map[string][]models.Exercise{
			"day1": {
				{Name: "Barbell Bench Press", Type: models.Weighted},
				{Name: "Pull-Ups", Type: models.Bodyweight},
			},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create schedule: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var schedule models.Schedule
	if err := json.NewDecoder(rec.Body).Decode(&schedule); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	return schedule
}

// TestHandleMe verifies the identity endpoint returns the dev user.
func TestHandleMe(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/me", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestHandleCatalog verifies the catalog endpoint exposes exercises, day
// limits, and the progression table.
func TestHandleCatalog(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Exercises map[string][]models.CatalogEntry `json:"exercises"`
		DayLimits map[string]map[string]int        `json:"dayLimits"`
		Stages    []struct {
			Sets int `json:"sets"`
			Reps int `json:"reps"`
		} `json:"stages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Stages) != 9 {
		t.Errorf("stages = %d, want 9", len(body.Stages))
	}
	if len(body.DayLimits) != 5 {
		t.Errorf("day limits = %d, want 5", len(body.DayLimits))
	}
	if _, ok := body.Exercises["pec-dominant"]; !ok {
		t.Error("catalog missing pec-dominant category")
	}
}

// TestCreateAndGetSchedule verifies the schedule round trip including
// default sets and reps assignment.
func TestCreateAndGetSchedule(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)
	if schedule.ID == "" {
		t.Fatal("schedule id is empty")
	}
	if got := schedule.Exercises["day1"][0]; got.Sets != 3 || got.Reps != 8 {
		t.Errorf("default stage = %dx%d, want 3x8", got.Sets, got.Reps)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/schedules/"+schedule.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get schedule: status = %d", rec.Code)
	}
	var fetched models.Schedule
	if err := json.NewDecoder(rec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched.Name != "Push Pull Legs" {
		t.Errorf("name = %q", fetched.Name)
	}
}

// TestCreateScheduleInvalid verifies catalog validation maps to 400.
func TestCreateScheduleInvalid(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/schedules", map[string]any{
		"name": "Bad",
		"exercises": map[string][]models.Exercise{
			"day1": {{Name: "Underwater Basket Press", Type: models.Weighted}},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestGetScheduleNotFound verifies an absent schedule maps to 404.
func TestGetScheduleNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/schedules/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestLatestSchedule verifies the latest endpoint returns the newest schedule
// and 404 when the user has none.
func TestLatestSchedule(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/schedules/latest", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty latest: status = %d, want 404", rec.Code)
	}

	schedule := createSchedule(t, s)
	rec = doJSON(t, s, http.MethodGet, "/api/v1/schedules/latest", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("latest: status = %d", rec.Code)
	}
	var latest models.Schedule
	if err := json.NewDecoder(rec.Body).Decode(&latest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if latest.ID != schedule.ID {
		t.Errorf("latest id = %q, want %q", latest.ID, schedule.ID)
	}
}

// TestUpdateExerciseField verifies editing reps through the PATCH endpoint
// and that an off-table value maps to 400.
func TestUpdateExerciseField(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)

	path := fmt.Sprintf("/api/v1/schedules/%s/days/day1/exercises/0", schedule.ID)
	rec := doJSON(t, s, http.MethodPatch, path, map[string]any{"field": "sets", "value": 4})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/schedules/"+schedule.ID, nil)
	var fetched models.Schedule
	if err := json.NewDecoder(rec.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := fetched.Exercises["day1"][0]; got.Sets != 4 || got.Reps != 8 {
		t.Errorf("stage = %dx%d, want 4x8", got.Sets, got.Reps)
	}

	rec = doJSON(t, s, http.MethodPatch, path, map[string]any{"field": "sets", "value": 7})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid sets: status = %d, want 400", rec.Code)
	}
}

// TestProgressFlow verifies weight entry, status entry, and day completion
// through the HTTP surface.
func TestProgressFlow(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)

	rec := doJSON(t, s, http.MethodPut, "/api/v1/progress/weight", map[string]any{
		"scheduleId": schedule.ID, "exercise": "Barbell Bench Press", "weight": 100,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set weight: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	for _, name := range []string{"Barbell Bench Press", "Pull-Ups"} {
		rec = doJSON(t, s, http.MethodPut, "/api/v1/progress/status", map[string]any{
			"scheduleId": schedule.ID, "exercise": name, "status": "completed",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("set status %s: status = %d, body = %s", name, rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/progress/complete-day", map[string]any{
		"scheduleId": schedule.ID, "day": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete day: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var progress models.Progress
	if err := json.NewDecoder(rec.Body).Decode(&progress); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if progress.CurrentDay != 2 {
		t.Errorf("currentDay = %d, want 2", progress.CurrentDay)
	}
	if progress.LastCompletedDay == nil || *progress.LastCompletedDay != 1 {
		t.Errorf("lastCompletedDay = %v, want 1", progress.LastCompletedDay)
	}
}

// TestCompleteDayIncomplete verifies completing a day with unset statuses
// maps to 400.
func TestCompleteDayIncomplete(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/progress/complete-day", map[string]any{
		"scheduleId": schedule.ID, "day": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestMissingWeightMapsTo400 verifies the missing weight rule surfaces as a
// client error.
func TestMissingWeightMapsTo400(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)

	rec := doJSON(t, s, http.MethodPut, "/api/v1/progress/status", map[string]any{
		"scheduleId": schedule.ID, "exercise": "Barbell Bench Press", "status": "completed",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestNewCycleAndHistory verifies cycle archival feeds the history endpoints.
func TestNewCycleAndHistory(t *testing.T) {
	s := newTestServer(t)
	schedule := createSchedule(t, s)

	doJSON(t, s, http.MethodPut, "/api/v1/progress/weight", map[string]any{
		"scheduleId": schedule.ID, "exercise": "Barbell Bench Press", "weight": 100,
	})
	for _, name := range []string{"Barbell Bench Press", "Pull-Ups"} {
		doJSON(t, s, http.MethodPut, "/api/v1/progress/status", map[string]any{
			"scheduleId": schedule.ID, "exercise": name, "status": "completed",
		})
	}
	doJSON(t, s, http.MethodPost, "/api/v1/progress/complete-day", map[string]any{
		"scheduleId": schedule.ID, "day": 1,
	})

	rec := doJSON(t, s, http.MethodPost, "/api/v1/progress/new-cycle", map[string]any{
		"scheduleId": schedule.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("new cycle: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var progress models.Progress
	if err := json.NewDecoder(rec.Body).Decode(&progress); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(progress.Status) != 0 {
		t.Errorf("statuses not cleared: %v", progress.Status)
	}
	if progress.CurrentDay != 1 {
		t.Errorf("currentDay = %d, want 1", progress.CurrentDay)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: status = %d", rec.Code)
	}
	var entries []models.HistoryEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].ScheduleID != schedule.ID {
		t.Errorf("scheduleId = %q, want %q", entries[0].ScheduleID, schedule.ID)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/history/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", rec.Code)
	}
	var stats tracker.HistoryStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalWorkouts != 2 {
		t.Errorf("totalWorkouts = %d, want 2", stats.TotalWorkouts)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/history/progression", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("progression: status = %d", rec.Code)
	}
	var series map[string][]tracker.WeightPoint
	if err := json.NewDecoder(rec.Body).Decode(&series); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(series["Barbell Bench Press"]) != 1 {
		t.Errorf("bench series = %v", series["Barbell Bench Press"])
	}
}

// TestBadJSONBody verifies malformed request bodies map to 400.
func TestBadJSONBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedules", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
