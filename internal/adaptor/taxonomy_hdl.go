package adaptor

import (
	"net/http"

	"review-catalog/internal/dto/request"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaxonomyHandler serves both categories and genres.
type TaxonomyHandler struct {
	service  usecase.TaxonomyService
	kind     string
	pageSize int
	log      *zap.Logger
}

func NewTaxonomyHandler(service usecase.TaxonomyService, kind string, pageSize int, log *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		service:  service,
		kind:     kind,
		pageSize: pageSize,
		log:      log.With(zap.String("handler", kind)),
	}
}

func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	req := request.NewPaginatedRequest(r, h.pageSize)

	page, err := h.service.List(r.Context(), r.URL.Query().Get("search"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list "+h.kind)
		return
	}

	utils.ResponseSuccess(w, page)
}

func (h *TaxonomyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.TaxonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	taxon, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create "+h.kind)
		return
	}

	utils.ResponseCreated(w, taxon)
}

func (h *TaxonomyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(w, h.log, err, "delete "+h.kind)
		return
	}

	utils.ResponseNoContent(w)
}
