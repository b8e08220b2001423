package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/cssgrader/internal/auth"
	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/grading"
)

// Server carries the dependencies of the instructor API.
type Server struct {
	Grader      *grading.Grader
	Scores      gradebook.Store      // nil: score routes answer 503
	Events      *gradebook.EventRepo // nil: /events answers 503
	Auth        *auth.AuthService
	Credentials auth.Credentials
	CORSOrigins []string
}

// NewRouter mounts login, grading and score routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(s.Auth, s.Credentials))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(s.Auth), auth.RequireRole(auth.RoleInstructor))
		pr.Post("/grade", GradeHandler(s.Grader))
		pr.Get("/scores", ListScoresHandler(s.Scores))
		pr.Get("/scores/{student}", StudentScoresHandler(s.Scores))
		pr.Get("/events", EventsHandler(s.Events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
