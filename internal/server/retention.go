package server

import (
	"log"
	"net/http"

	"github.com/twinlabs/twinsight/internal/db"
)

func (s *Server) handleRetention(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	scope := db.PopulationScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = db.ScopeAll
	}
	if !db.ValidScope(scope) {
		writeError(w, http.StatusBadRequest,
			"invalid scope: must be all or active")
		return
	}

	result, err := s.db.GetRetention(r.Context(), from, to, scope, s.now())
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("retention error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
