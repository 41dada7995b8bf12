package server

import (
	"log"
	"net/http"
)

func (s *Server) handleMetricsOverview(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	result, err := s.db.GetMetricsOverview(r.Context(), from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("metrics error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
