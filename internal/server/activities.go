package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/twinlabs/twinsight/internal/db"
)

func (s *Server) handleListActivities(
	w http.ResponseWriter, r *http.Request,
) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest,
				"page must be a positive integer")
			return
		}
		page = n
	}

	limit := db.DefaultActivityLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > db.MaxActivityLimit {
			writeError(w, http.StatusBadRequest,
				"limit must be between 1 and "+
					strconv.Itoa(db.MaxActivityLimit))
			return
		}
		limit = n
	}

	kind := q.Get("type")
	if kind != "" && !db.ValidActivityKind(kind) {
		writeError(w, http.StatusBadRequest,
			"invalid type: must be conversation, document, query, or shared")
		return
	}

	// Malformed optional date bounds are ignored rather than
	// rejected; the feed simply shows everything.
	from := q.Get("start_date")
	if !isValidDate(from) {
		from = ""
	}
	to := q.Get("end_date")
	if !isValidDate(to) {
		to = ""
	}

	result, err := s.db.ListActivities(r.Context(), db.ActivityFilter{
		Kind:  kind,
		User:  q.Get("user"),
		From:  from,
		To:    to,
		Page:  page,
		Limit: limit,
		Now:   s.now(),
	})
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("activities error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetActivity(
	w http.ResponseWriter, r *http.Request,
) {
	id := r.PathValue("id")

	result, err := s.db.GetActivityDetail(r.Context(), id, s.now())
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		log.Printf("activity detail error: %v", err)
		writeError(w, http.StatusInternalServerError,
			"internal server error")
		return
	}
	if result == nil {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
