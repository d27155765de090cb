package api

import (
	"net/http"
	"time"
	"vibebench/internal/api/handler"
	"vibebench/internal/api/middleware"
	"vibebench/internal/app/service"
	"vibebench/internal/common/security"
	"vibebench/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	benchmarkService *service.BenchmarkService,
	submissionService *service.SubmissionService,
	likeService *service.LikeService,
	uploadService *service.UploadService,
	userRepo repository.UserRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP) // Fingerprints depend on the true client address
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a token when present and puts claims in context; routes
	// decide individually whether a session is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		authHandler.RegisterRoutes(v1)

		benchmarkHandler := handler.NewBenchmarkHandler(benchmarkService, userRepo)
		submissionHandler := handler.NewSubmissionHandler(submissionService)
		likeHandler := handler.NewLikeHandler(likeService)
		uploadHandler := handler.NewUploadHandler(uploadService)

		v1.Route("/benchmarks", func(r chi.Router) {
			benchmarkHandler.RegisterRoutes(r)
			submissionHandler.RegisterIntakeRoutes(r)
		})

		v1.Route("/submissions", func(r chi.Router) {
			submissionHandler.RegisterRoutes(r)
			likeHandler.RegisterRoutes(r)
		})

		v1.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.Authenticator)
			submissionHandler.RegisterDashboardRoutes(r)
		})

		v1.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticator)
			r.Use(middleware.RequireAdmin(userRepo))
			benchmarkHandler.RegisterAdminRoutes(r)
			submissionHandler.RegisterAdminRoutes(r)
		})

		v1.Route("/uploads", uploadHandler.RegisterRoutes)
	})

	return r
}
