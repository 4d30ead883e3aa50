package response

import (
	"review-catalog/internal/dto/request"
	"review-catalog/pkg/utils"
)

type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func NewPaginatedResponse[T any](results []T, req *request.PaginatedRequest, total int64) *PaginatedResponse[T] {
	if results == nil {
		results = []T{}
	}

	resp := &PaginatedResponse[T]{
		Count:   total,
		Results: results,
	}

	if req.Page < utils.CalculateTotalPages(total, req.Limit()) {
		next := req.PageURL(req.Page + 1)
		resp.Next = &next
	}
	if req.Page > 1 {
		prev := req.PageURL(req.Page - 1)
		resp.Previous = &prev
	}

	return resp
}

// Map converts every element with fn.
func Map[E, T any](items []E, fn func(E) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
