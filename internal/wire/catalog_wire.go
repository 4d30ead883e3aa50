package wire

import (
	"review-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, handler *adaptor.Handler) {
	wireTaxonomy(r, "/categories", handler.Category)
	wireTaxonomy(r, "/genres", handler.Genre)

	r.Route("/titles", func(r chi.Router) {
		r.Get("/", handler.Title.GetTitles)
		r.Post("/", handler.Title.CreateTitle)

		r.Route("/{title_id}", func(r chi.Router) {
			r.Get("/", handler.Title.GetTitle)
			r.Patch("/", handler.Title.UpdateTitle)
			r.Delete("/", handler.Title.DeleteTitle)

			wireReview(r, handler.Review, handler.Comment)
		})
	})
}

// Categories and genres have no detail view and cannot be updated.
func wireTaxonomy(r chi.Router, prefix string, h *adaptor.TaxonomyHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{slug}", h.Delete)
	})
}
