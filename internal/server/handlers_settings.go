package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftplan/internal/engine"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	// Start from the stored values so a partial body only changes what it
	// names.
	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := validateSettings(settings); err != nil {
		writeError(w, err)
		return
	}

	if err := s.db.PutSettings(r.Context(), uid, settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutExerciseSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercise := chi.URLParam(r, "name")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise name required"})
		return
	}

	var o engine.Override
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := validateOverride(o); err != nil {
		writeError(w, err)
		return
	}

	if err := s.db.PutExerciseSettings(r.Context(), uid, exercise, o); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": exercise, "override": o})
}

func (s *Server) handleDeleteExerciseSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercise := chi.URLParam(r, "name")
	deleted, err := s.db.DeleteExerciseSettings(r.Context(), uid, exercise)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no override for exercise"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpcomingSessions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	from := time.Now().Truncate(24 * time.Hour)
	if f := r.URL.Query().Get("from"); f != "" {
		parsed, err := parseDate(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date: " + err.Error()})
			return
		}
		from = parsed
	}

	sessions, err := s.db.UpcomingSessions(r.Context(), uid, from, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handlePerformanceHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercise := r.URL.Query().Get("exercise")
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	since := time.Now().AddDate(0, -3, 0)
	if f := r.URL.Query().Get("since"); f != "" {
		parsed, err := parseDate(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since date: " + err.Error()})
			return
		}
		since = parsed
	}

	entries, err := s.db.PerformanceHistory(r.Context(), uid, exercise, since, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// validateSettings rejects threshold ladders that are out of order and
// percentages outside a sane range.
func validateSettings(s engine.Settings) error {
	switch s.AdjustmentMode {
	case engine.AdjustmentManual, engine.AdjustmentAutomatic:
	default:
		return &engine.ValidationError{Field: "adjustment_mode", Reason: "must be manual or automatic"}
	}
	if s.ExcellentThreshold < s.GoodThreshold || s.GoodThreshold < s.AdjustmentThreshold {
		return &engine.ValidationError{Field: "thresholds", Reason: "must satisfy excellent >= good >= adjustment"}
	}
	if s.AdjustmentThreshold < 0 || s.ExcellentThreshold > 100 {
		return &engine.ValidationError{Field: "thresholds", Reason: "must be between 0 and 100"}
	}
	if s.ReductionPercent <= 0 || s.ReductionPercent >= 100 {
		return &engine.ValidationError{Field: "reduction_percent", Reason: "must be between 0 and 100"}
	}
	if s.DeloadPercent <= 0 || s.DeloadPercent >= 100 {
		return &engine.ValidationError{Field: "deload_percent", Reason: "must be between 0 and 100"}
	}
	if s.LowerBodyIncrement <= 0 || s.UpperBodyIncrement <= 0 {
		return &engine.ValidationError{Field: "increments", Reason: "must be positive"}
	}
	if s.AutoDeloadEnabled && s.AutoDeloadFrequency < 1 {
		return &engine.ValidationError{Field: "auto_deload_frequency", Reason: "must be at least 1"}
	}
	return nil
}

func validateOverride(o engine.Override) error {
	if o.Increment != nil && *o.Increment <= 0 {
		return &engine.ValidationError{Field: "increment", Reason: "must be positive"}
	}
	for field, p := range map[string]*float64{
		"excellent_threshold":  o.ExcellentThreshold,
		"good_threshold":       o.GoodThreshold,
		"adjustment_threshold": o.AdjustmentThreshold,
	} {
		if p != nil && (*p < 0 || *p > 100) {
			return &engine.ValidationError{Field: field, Reason: "must be between 0 and 100"}
		}
	}
	for field, p := range map[string]*float64{
		"reduction_percent": o.ReductionPercent,
		"deload_percent":    o.DeloadPercent,
	} {
		if p != nil && (*p <= 0 || *p >= 100) {
			return &engine.ValidationError{Field: field, Reason: "must be between 0 and 100"}
		}
	}
	return nil
}
