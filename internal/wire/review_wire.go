package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview mounts reviews and their comments under a title.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.GetReviews)
		r.Post("/", reviewHandler.CreateReview)

		r.Route("/{review_id}", func(r chi.Router) {
			r.Get("/", reviewHandler.GetReview)
			r.Patch("/", reviewHandler.UpdateReview)
			r.Delete("/", reviewHandler.DeleteReview)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", commentHandler.GetComments)
				r.Post("/", commentHandler.CreateComment)
				r.Get("/{comment_id}", commentHandler.GetComment)
				r.Patch("/{comment_id}", commentHandler.UpdateComment)
				r.Delete("/{comment_id}", commentHandler.DeleteComment)
			})
		})
	})
}
