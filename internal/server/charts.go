package server

import (
	"log"
	"net/http"

	"github.com/twinlabs/twinsight/internal/db"
)

// parseEventKind reads the kind query param with a fallback,
// writing a 400 for unknown kinds.
func parseEventKind(
	w http.ResponseWriter, r *http.Request, fallback db.EventKind,
) (db.EventKind, bool) {
	kind := db.EventKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = fallback
	}
	if !db.ValidEventKind(kind) {
		writeError(w, http.StatusBadRequest,
			"invalid kind: must be active_users, sessions, messages, "+
				"documents, queries, or shared_interactions")
		return "", false
	}
	return kind, true
}

func (s *Server) handleActivityChart(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}
	kind, ok := parseEventKind(w, r, db.EventActiveUsers)
	if !ok {
		return
	}

	result, err := s.db.GetSeries(r.Context(), kind, from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("chart error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleConversationChart(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	result, err := s.db.GetConversationSeries(r.Context(), from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("chart error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEngagementChart(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	result, err := s.db.GetEngagement(r.Context(), from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("chart error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHourlyChart(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}
	kind, ok := parseEventKind(w, r, db.EventMessages)
	if !ok {
		return
	}

	result, err := s.db.GetHourlyAverage(r.Context(), kind, from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("chart error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeatureUsage(
	w http.ResponseWriter, r *http.Request,
) {
	from, to, ok := s.parseDateRange(w, r)
	if !ok {
		return
	}

	result, err := s.db.GetFeatureDistribution(r.Context(), from, to)
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("chart error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
