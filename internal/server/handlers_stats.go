package server

import (
	"net/http"
	"strconv"
	"time"
)

// handleCalendar returns which days of a month had completed workouts.
// Month defaults to the current one; override with year and month query
// params.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(m)
	}

	days, err := s.db.MonthlyCalendar(r.Context(), profile.ID, year, month)
	if err != nil {
		s.log.Error("monthly calendar", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": int(month),
		"days":  days,
	})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.db.GetVolumeStats(r.Context(), profile.ID, start, end)
	if err != nil {
		s.log.Error("volume stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePersonalBests(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFromContext(r.Context())

	bests, err := s.db.GetPersonalBests(r.Context(), profile.ID)
	if err != nil {
		s.log.Error("personal bests", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"personalBests": bests, "count": len(bests)})
}
