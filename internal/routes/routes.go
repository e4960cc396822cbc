package routes

import (
	"net/http"

	"github.com/AnshRaj112/butterfly-accounts/internal/handlers"
	"github.com/AnshRaj112/butterfly-accounts/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the account API on r. Sign in and reset initiation go
// through limiter; profile and follow changes require a bearer token.
func SetupRoutes(r chi.Router, h *handlers.Handler, auth *middleware.Authenticator, limiter *middleware.RateLimiter) {
	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/register", h.Register)
	r.Get("/users", h.ListAccounts)
	r.Get("/user", h.GetAccount)
	r.Post("/reset", h.CompletePasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)
		r.Post("/login", h.Login)
		r.Post("/resetpassword", h.RequestPasswordReset)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Put("/user", h.UpdateAccount)
		r.Post("/follow", h.Follow)
		r.Delete("/follow", h.Unfollow)
		r.Get("/verify", h.Verify)
	})
}
