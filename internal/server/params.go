package server

import (
	"net/http"
	"time"
)

// isValidDate checks that s is a well-formed YYYY-MM-DD string.
func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// defaultDateRange returns (from, to) defaulting to the last
// 30 days if not provided.
func (s *Server) defaultDateRange(from, to string) (string, string) {
	now := s.now()
	if to == "" {
		to = now.Format("2006-01-02")
	}
	if from == "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			t = now
		}
		from = t.AddDate(0, 0, -30).Format("2006-01-02")
	}
	return from, to
}

// parseDateRange extracts and validates the start_date/end_date
// query params, applying the last-30-days default. Writes a 400 and
// returns ok=false on malformed input.
func (s *Server) parseDateRange(
	w http.ResponseWriter, r *http.Request,
) (string, string, bool) {
	q := r.URL.Query()
	from, to := s.defaultDateRange(q.Get("start_date"), q.Get("end_date"))

	if !isValidDate(from) || !isValidDate(to) {
		writeError(w, http.StatusBadRequest,
			"invalid date format: use YYYY-MM-DD")
		return "", "", false
	}
	if from > to {
		writeError(w, http.StatusBadRequest,
			"start_date must not be after end_date")
		return "", "", false
	}
	return from, to, true
}
