package adaptor

import (
	"net/http"
	"strconv"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service  usecase.TitleService
	pageSize int
	log      *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, pageSize int, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service:  service,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", "title")),
	}
}

// GetTitles handles GET /titles with optional category, genre, name and
// year filters.
func (h *TitleHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := request.TitleFilterRequest{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseValidation(w, map[string]string{"year": "Enter a whole number."})
			return
		}
		filter.Year = &year
	}

	titles, err := h.service.GetAllTitles(r.Context(), filter, request.NewPaginatedRequest(r, h.pageSize))
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, titles)
}

// GetTitle handles GET /titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitle(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, title)
}

// CreateTitle handles POST /titles
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, title)
}

// UpdateTitle handles PATCH /titles/{title_id}
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, title)
}

// DeleteTitle handles DELETE /titles/{title_id}
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTitle(r.Context(), chi.URLParam(r, "title_id")); err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
