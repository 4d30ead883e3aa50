package request

// TitleRequest references its category and genres by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,titleyear"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,max=50"`
	Genre       []string `json:"genre" validate:"required,dive,required,max=50"`
}

// TitleUpdateRequest is a partial update. A nil Genre keeps the current
// genres; an empty list clears them.
type TitleUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=256"`
	Year        *int     `json:"year" validate:"omitnil,titleyear"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitnil,min=1,max=50"`
	Genre       []string `json:"genre" validate:"omitnil,dive,required,max=50"`
}

// TitleFilterRequest carries the list query parameters.
type TitleFilterRequest struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}
