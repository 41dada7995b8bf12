package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/twinlabs/twinsight/internal/db"
)

func (s *Server) handleLeaderboard(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > db.MaxLeaderboardLimit {
			writeError(w, http.StatusBadRequest,
				"limit must be between 1 and "+
					strconv.Itoa(db.MaxLeaderboardLimit))
			return
		}
		limit = n
	}

	result, err := s.db.GetLeaderboard(r.Context(), from, to, limit)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("leaderboard error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
