package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftplan/internal/engine"
	"github.com/claude/liftplan/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.ProgramTemplates())
}

type createProgramRequest struct {
	Name       string             `json:"name"`
	Template   string             `json:"template"`
	Style      string             `json:"style"`
	TotalWeeks int                `json:"total_weeks"`
	Maxes      map[string]float64 `json:"maxes"`
	StartDate  string             `json:"start_date"`
	Notes      string             `json:"notes"`
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req createProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date: " + err.Error()})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	prog, err := engine.GenerateProgram(engine.ProgramInput{
		Name:       req.Name,
		Template:   models.TemplateKind(req.Template),
		Style:      models.ProgressionStyle(req.Style),
		TotalWeeks: req.TotalWeeks,
		Maxes:      req.Maxes,
		StartDate:  startDate,
		Notes:      req.Notes,
	}, settings)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.db.InsertProgram(r.Context(), uid, prog); err != nil {
		s.log.Error("insert program failed", "name", prog.Name, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, prog)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	progs, err := s.db.ListPrograms(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progs)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}
	prog, err := s.db.GetProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}
	deleted, err := s.db.DeleteProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProgramStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	next := models.Status(req.Status)

	prog, err := s.db.GetProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !prog.Status.CanTransitionTo(next) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "cannot transition from " + string(prog.Status) + " to " + req.Status,
		})
		return
	}

	if err := s.db.UpdateProgramStatus(r.Context(), uid, id, next); err != nil {
		writeError(w, err)
		return
	}
	prog.Status = next
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleLogExerciseSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}
	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	setNumber, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil || setNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set number"})
		return
	}

	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ActualReps < 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "actual_reps must not be negative"})
		return
	}
	if req.RPE != nil && (*req.RPE < 1 || *req.RPE > 10) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "rpe must be between 1 and 10"})
		return
	}

	prog, err := s.db.GetProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if prog.ExerciseSessionByID(sessionID) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	logged, err := s.db.LogExerciseSet(r.Context(), sessionID, setNumber, req.ActualReps, req.ActualWeight, req.RPE, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	if !logged {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "set not found or already completed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logged": true, "set_number": setNumber})
}

func (s *Server) handleCompleteExerciseSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}
	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	prog, err := s.db.GetProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := prog.ExerciseSessionByID(sessionID)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if sess.Completed {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already completed"})
		return
	}
	exercise := prog.ExerciseByID(sess.ProgramExerciseID)
	if exercise == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session has no exercise definition"})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	es := settings.ForExercise(exercise.Exercise)

	rec := engine.EvaluateExerciseSession(prog, sess, es)

	now := time.Now()
	sess.Completed = true
	sess.CompletedAt = &now

	// A passing session moves the exercise's working weight up by its
	// increment; anything else leaves it where it was.
	newWeight := 0.0
	if rec.Kind == engine.AdjustContinue {
		newWeight = engine.RoundToIncrement(exercise.CurrentWeight+exercise.Increment, es.Increment)
		exercise.CurrentWeight = newWeight
	}

	advanced := engine.AdvanceProgramWeek(prog)
	newWeek := 0
	if advanced {
		newWeek = prog.CurrentWeek
	}

	if err := s.db.CompleteExerciseSession(r.Context(), prog.ID, sessionID, now, exercise.ID, newWeight, newWeek); err != nil {
		writeError(w, err)
		return
	}

	result := completionResult{
		PerformancePercentage: rec.Performance,
		Recommendation:        rec,
		WeekAdvanced:          advanced,
		CurrentWeek:           prog.CurrentWeek,
	}

	if settings.AdjustmentMode == engine.AdjustmentAutomatic && rec.Kind != engine.AdjustContinue {
		changed, err := engine.AdjustProgramExercise(prog, sessionID, rec, es)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.db.SaveAdjustedExerciseSessions(r.Context(), changed); err != nil {
			writeError(w, err)
			return
		}
		result.AdjustmentApplied = true
		result.SessionsAdjusted = len(changed)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdjustProgram(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sessionID, err := parseUUIDField(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session_id"})
		return
	}

	prog, err := s.db.GetProgram(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := prog.ExerciseSessionByID(sessionID)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	exercise := prog.ExerciseByID(sess.ProgramExerciseID)
	if exercise == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session has no exercise definition"})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	es := settings.ForExercise(exercise.Exercise)
	rec := recommendationFromRequest(engine.AdjustmentKind(req.Kind), req.Percent, es)

	changed, err := engine.AdjustProgramExercise(prog, sessionID, rec, es)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.SaveAdjustedExerciseSessions(r.Context(), changed); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions_adjusted": len(changed)})
}
