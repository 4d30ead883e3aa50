package response

import "review-catalog/internal/data/entity"

type TitleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *float64        `json:"rating"`
	Description string          `json:"description"`
	Genre       []TaxonResponse `json:"genre"`
	Category    *TaxonResponse  `json:"category"`
}

func TitleToResponse(title *entity.Title) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      title.Rating,
		Description: title.Description,
		Genre:       make([]TaxonResponse, 0, len(title.Genres)),
	}

	for _, g := range title.Genres {
		resp.Genre = append(resp.Genre, TaxonToResponse(g))
	}

	if title.Category != nil {
		c := TaxonToResponse(title.Category)
		resp.Category = &c
	}

	return resp
}
