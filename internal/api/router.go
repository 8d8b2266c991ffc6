package api

import (
	"net/http"
	"time"

	"grindtrack/internal/api/handler"
	"grindtrack/internal/api/middleware"
	"grindtrack/internal/app/service"
	"grindtrack/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	solvedService *service.SolvedService,
	recService *service.RecommendationService,
	syncService *service.SyncService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies "Authorization: Bearer T" tokens, puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Everything below requires an authenticated caller.
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.Authenticator)

			userHandler := handler.NewUserHandler(userService)
			authed.Route("/users", userHandler.RegisterRoutes)

			solvedHandler := handler.NewSolvedHandler(solvedService)
			authed.Route("/solved", solvedHandler.RegisterRoutes)

			recHandler := handler.NewRecommendationHandler(recService)
			authed.Route("/recommendations", recHandler.RegisterRoutes)

			syncHandler := handler.NewSyncHandler(syncService)
			authed.Route("/sync", syncHandler.RegisterRoutes)
		})
	})

	return r
}
