package http

import (
	"net/http"
	"strconv"

	"github.com/mind-engage/cssgrader/internal/gradebook"
)

// GET /events?after=SEQ&limit=N
func EventsHandler(repo *gradebook.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			http.Error(w, "gradebook disabled", http.StatusServiceUnavailable)
			return
		}
		q := r.URL.Query()
		var after int64
		if v := q.Get("after"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				http.Error(w, "after must be a non-negative integer", http.StatusBadRequest)
				return
			}
			after = n
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		events, err := repo.Since(r.Context(), after, limit)
		if err != nil {
			http.Error(w, "events: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []gradebook.Event{}
		}
		writeJSON(w, events)
	}
}
