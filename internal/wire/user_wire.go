package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser registers account routes. Access is decided per call by the user
// service: /users/me needs a token, everything else an admin.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.GetUsers)
		r.Post("/", userHandler.CreateUser)

		r.Get("/me", userHandler.GetMe)
		r.Patch("/me", userHandler.UpdateMe)

		r.Get("/{username}", userHandler.GetUser)
		r.Patch("/{username}", userHandler.UpdateUser)
		r.Delete("/{username}", userHandler.DeleteUser)
	})
}
