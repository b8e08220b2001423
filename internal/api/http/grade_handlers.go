package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/grading"
	css "github.com/mind-engage/cssgrader/internal/stylesheet"
)

const maxStylesheetBytes = 1 << 20

type gradeResp struct {
	Result      grading.Result  `json:"result"`
	Diagnostics css.Diagnostics `json:"diagnostics"`
}

// POST /grade
// Body is the stylesheet itself, or JSON {"css": "..."}. There is no commit
// history, so a non-blank stylesheet is graded as on time.
func GradeHandler(g *grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := readStylesheet(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status := grading.OnTime
		if css.IsBlank(src) {
			status = grading.Missing
		}
		var rules []css.Rule
		var diag css.Diagnostics
		if status != grading.Missing {
			rules = css.Parse(src)
			diag = css.Diagnose(src, rules, nil)
		}
		writeJSON(w, gradeResp{Result: g.Grade(rules, status), Diagnostics: diag})
	}
}

func readStylesheet(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStylesheetBytes))
	if err != nil {
		return "", errors.New("read body: " + err.Error())
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		return string(body), nil
	}
	var req struct {
		CSS string `json:"css"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errors.New("bad json: " + err.Error())
	}
	return req.CSS, nil
}

// GET /scores?limit=N
func ListScoresHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "gradebook disabled", http.StatusServiceUnavailable)
			return
		}
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		entries, err := store.List(r.Context(), limit)
		if err != nil {
			http.Error(w, "list scores: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []gradebook.Entry{}
		}
		writeJSON(w, entries)
	}
}

// GET /scores/{student}
func StudentScoresHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "gradebook disabled", http.StatusServiceUnavailable)
			return
		}
		student := strings.TrimSpace(chi.URLParam(r, "student"))
		if student == "" {
			http.Error(w, "student required", http.StatusBadRequest)
			return
		}
		entries, err := store.ForStudent(r.Context(), student)
		switch {
		case errors.Is(err, gradebook.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "student scores: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
