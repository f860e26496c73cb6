package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/health-index-server/internal/auth"
	"github.com/parisxmas/health-index-server/internal/handler"
	mw "github.com/parisxmas/health-index-server/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	subH *handler.SubmissionHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", authH.Login)
		r.Post("/submit", subH.Submit)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Get("/me", authH.Me)
			r.Get("/submissions", subH.List)
			r.Put("/submissions/{id}", subH.Update)
			r.Delete("/submissions/{id}", subH.Delete)
		})
	})

	return r
}
