package response

import "review-catalog/internal/data/entity"

type TaxonResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func TaxonToResponse(taxon *entity.Taxon) TaxonResponse {
	return TaxonResponse{Name: taxon.Name, Slug: taxon.Slug}
}
