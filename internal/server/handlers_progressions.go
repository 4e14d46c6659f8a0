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

type createProgressionRequest struct {
	Exercise        string  `json:"exercise"`
	Template        string  `json:"template"`
	Style           string  `json:"style"`
	CurrentMax      float64 `json:"current_max"`
	TargetMax       float64 `json:"target_max"`
	TotalWeeks      int     `json:"total_weeks"`
	SessionsPerWeek int     `json:"sessions_per_week"`
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
	StartDate       string  `json:"start_date"`
	Notes           string  `json:"notes"`
}

func (s *Server) handleCreateProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req createProgressionRequest
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

	template := models.TemplateKind(req.Template)
	if req.Template == "" {
		template = models.TemplateCustom
	}

	prog, err := engine.GenerateProgression(engine.ProgressionInput{
		Exercise:        req.Exercise,
		Template:        template,
		Style:           models.ProgressionStyle(req.Style),
		CurrentMax:      req.CurrentMax,
		TargetMax:       req.TargetMax,
		TotalWeeks:      req.TotalWeeks,
		SessionsPerWeek: req.SessionsPerWeek,
		Sets:            req.Sets,
		Reps:            req.Reps,
		StartDate:       startDate,
		Notes:           req.Notes,
	}, settings)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.db.InsertProgression(r.Context(), uid, prog); err != nil {
		s.log.Error("insert progression failed", "exercise", prog.Exercise, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, prog)
}

func (s *Server) handleListProgressions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	progs, err := s.db.ListProgressions(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progs)
}

func (s *Server) handleGetProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
		return
	}
	prog, err := s.db.GetProgression(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleDeleteProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
		return
	}
	deleted, err := s.db.DeleteProgression(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "progression not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleProgressionStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	next := models.Status(req.Status)

	prog, err := s.db.GetProgression(r.Context(), uid, id)
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

	if err := s.db.UpdateProgressionStatus(r.Context(), uid, id, next); err != nil {
		writeError(w, err)
		return
	}
	prog.Status = next
	writeJSON(w, http.StatusOK, prog)
}

type logSetRequest struct {
	ActualReps   int      `json:"actual_reps"`
	ActualWeight *float64 `json:"actual_weight"`
	RPE          *int     `json:"rpe"`
	Notes        string   `json:"notes"`
}

func (s *Server) handleLogWorkoutSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
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

	prog, err := s.db.GetProgression(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := prog.SessionByID(sessionID)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	logged, err := s.db.LogWorkoutSet(r.Context(), sessionID, setNumber, req.ActualReps, req.ActualWeight, req.RPE, req.Notes)
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

// completionResult is the response for completing a session: the evaluated
// performance, the advisory recommendation, and whether the track's week
// rolled forward (and, under automatic mode, whether the recommendation was
// applied to the remaining schedule).
type completionResult struct {
	PerformancePercentage float64               `json:"performance_percentage"`
	Recommendation        engine.Recommendation `json:"recommendation"`
	WeekAdvanced          bool                  `json:"week_advanced"`
	CurrentWeek           int                   `json:"current_week"`
	AdjustmentApplied     bool                  `json:"adjustment_applied"`
	SessionsAdjusted      int                   `json:"sessions_adjusted,omitempty"`
}

func (s *Server) handleCompleteWorkoutSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
		return
	}
	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	prog, err := s.db.GetProgression(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := prog.SessionByID(sessionID)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if sess.Completed {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already completed"})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	es := settings.ForExercise(prog.Exercise)

	// Evaluate against the week the session belonged to, then see whether
	// completing it rolls the week forward.
	rec := engine.EvaluateSession(prog, sess, es)

	now := time.Now()
	sess.Completed = true
	sess.CompletedAt = &now

	advanced := engine.AdvanceProgressionWeek(prog)
	newWeek := 0
	if advanced {
		newWeek = prog.CurrentWeek
	}

	if err := s.db.CompleteWorkoutSession(r.Context(), prog.ID, sessionID, now, newWeek); err != nil {
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
		changed, err := engine.AdjustProgression(prog, sessionID, rec, es)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.db.SaveAdjustedSessions(r.Context(), changed); err != nil {
			writeError(w, err)
			return
		}
		result.AdjustmentApplied = true
		result.SessionsAdjusted = len(changed)
	}

	writeJSON(w, http.StatusOK, result)
}

type adjustRequest struct {
	SessionID string  `json:"session_id"`
	Kind      string  `json:"kind"`
	Percent   float64 `json:"percent"`
}

func (s *Server) handleAdjustProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid progression ID"})
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

	prog, err := s.db.GetProgression(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	es := settings.ForExercise(prog.Exercise)
	rec := recommendationFromRequest(engine.AdjustmentKind(req.Kind), req.Percent, es)

	changed, err := engine.AdjustProgression(prog, sessionID, rec, es)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.db.SaveAdjustedSessions(r.Context(), changed); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions_adjusted": len(changed)})
}

// recommendationFromRequest builds the recommendation a manual adjust call
// asks for, filling the percent from settings when the caller leaves it off.
func recommendationFromRequest(kind engine.AdjustmentKind, percent float64, es engine.ExerciseSettings) engine.Recommendation {
	if percent == 0 {
		switch kind {
		case engine.AdjustReduce:
			percent = es.ReductionPercent
		case engine.AdjustDeload:
			percent = es.DeloadPercent
		}
	}
	return engine.Recommendation{Kind: kind, Percent: percent}
}
