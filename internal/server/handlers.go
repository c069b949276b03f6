package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/progression"
	"github.com/Phuzzle/exerpal/internal/tracker"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": models.Catalog,
		"dayLimits": models.DayLimits,
		"stages":    progression.Stages(),
	})
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string                       `json:"name"`
		Exercises map[string][]models.Exercise `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	schedule, err := s.tracker.CreateSchedule(r.Context(), userFromContext(r), req.Name, req.Exercises)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.tracker.ListSchedules(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleLatestSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.tracker.LatestSchedule(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.tracker.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise index"})
		return
	}

	var req struct {
		Field string  `json:"field"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	err = s.tracker.UpdateExerciseField(r.Context(),
		userFromContext(r), chi.URLParam(r, "id"), chi.URLParam(r, "day"), index, req.Field, req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.tracker.GetOrInitProgress(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID string  `json:"scheduleId"`
		Exercise   string  `json:"exercise"`
		Weight     float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.tracker.SetWeight(r.Context(), userFromContext(r), req.ScheduleID, req.Exercise, req.Weight); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID string        `json:"scheduleId"`
		Exercise   string        `json:"exercise"`
		Status     models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.tracker.SetStatus(r.Context(), userFromContext(r), req.ScheduleID, req.Exercise, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleCompleteDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID string `json:"scheduleId"`
		Day        int    `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	progress, err := s.tracker.CompleteDay(r.Context(), userFromContext(r), req.ScheduleID, req.Day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleNewCycle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID string `json:"scheduleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	progress, err := s.tracker.StartNewCycle(r.Context(), userFromContext(r), req.ScheduleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.tracker.History(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.Stats(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWeightProgression(w http.ResponseWriter, r *http.Request) {
	series, err := s.tracker.WeightProgression(r.Context(), userFromContext(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// writeError maps engine errors to HTTP status codes: validation failures
// are the client's fault, absent records are 404, everything else is a
// storage failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progression.ErrInvalidCombination),
		errors.Is(err, tracker.ErrMissingWeight),
		errors.Is(err, tracker.ErrDayIncomplete),
		errors.Is(err, tracker.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, docstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
