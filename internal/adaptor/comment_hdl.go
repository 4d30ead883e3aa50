package adaptor

import (
	"net/http"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service  usecase.CommentService
	pageSize int
	log      *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, pageSize int, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service:  service,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", "comment")),
	}
}

// scope returns the title and review ids from the path.
func scope(r *http.Request) (string, string) {
	return chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id")
}

// GetComments handles GET /titles/{title_id}/reviews/{review_id}/comments
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID := scope(r)

	comments, err := h.service.GetReviewComments(r.Context(), titleID, reviewID, request.NewPaginatedRequest(r, h.pageSize))
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, comments)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID := scope(r)

	comment, err := h.service.GetComment(r.Context(), titleID, reviewID, chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, comment)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	titleID, reviewID := scope(r)

	comment, err := h.service.CreateComment(r.Context(), titleID, reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, comment)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	titleID, reviewID := scope(r)

	comment, err := h.service.UpdateComment(r.Context(), titleID, reviewID, chi.URLParam(r, "comment_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID := scope(r)

	if err := h.service.DeleteComment(r.Context(), titleID, reviewID, chi.URLParam(r, "comment_id")); err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
