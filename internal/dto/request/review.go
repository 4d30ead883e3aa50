package request

type ReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

type ReviewUpdateRequest struct {
	Text  *string `json:"text" validate:"omitnil,min=1"`
	Score *int    `json:"score" validate:"omitnil,min=1,max=10"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type CommentUpdateRequest struct {
	Text *string `json:"text" validate:"omitnil,min=1"`
}
