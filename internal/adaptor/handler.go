package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *TaxonomyHandler
	Genre    *TaxonomyHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	pageSize := config.Pagination.PageSize

	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, pageSize, log),
		Category: NewTaxonomyHandler(service.Category, "category", pageSize, log),
		Genre:    NewTaxonomyHandler(service.Genre, "genre", pageSize, log),
		Title:    NewTitleHandler(service.Title, pageSize, log),
		Review:   NewReviewHandler(service.Review, pageSize, log),
		Comment:  NewCommentHandler(service.Comment, pageSize, log),
	}
}

// decodeJSON reads the request body into dst. It writes the 400 itself and
// reports false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		utils.ResponseBadRequest(w, "Request body is empty")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		utils.ResponseValidation(w, map[string]string{typeErr.Field: "Invalid type, expected " + typeErr.Type.String()})
	default:
		utils.ResponseBadRequest(w, "Malformed JSON body")
	}
	return false
}

// handleServiceError maps use case errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Debug(operation+" rejected", zap.Any("fields", verr.Fields))
		utils.ResponseValidation(w, verr.Fields)

	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication credentials were not provided.")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" denied", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have permission to perform this action.")

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found.")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
