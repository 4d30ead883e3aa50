package usecase

import (
	"context"
	"fmt"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/permission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaxonomyService serves either categories or genres.
type TaxonomyService interface {
	List(ctx context.Context, name string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaxonResponse], error)
	Create(ctx context.Context, req *request.TaxonRequest) (*response.TaxonResponse, error)
	Delete(ctx context.Context, slug string) error
}

type taxonomyService struct {
	repo repository.TaxonomyRepository
	kind string
	log  *zap.Logger
}

func NewTaxonomyService(repo repository.TaxonomyRepository, kind string, log *zap.Logger) TaxonomyService {
	return &taxonomyService{
		repo: repo,
		kind: kind,
		log:  log.With(zap.String("service", kind)),
	}
}

func (s *taxonomyService) List(ctx context.Context, name string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TaxonResponse], error) {
	total, err := s.repo.CountAll(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := checkPage(req, total); err != nil {
		return nil, err
	}

	taxa, err := s.repo.FindAll(ctx, name, repository.Page{Limit: req.Limit(), Offset: req.Offset()})
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.Map(taxa, response.TaxonToResponse), req, total), nil
}

func (s *taxonomyService) Create(ctx context.Context, req *request.TaxonRequest) (*response.TaxonResponse, error) {
	if err := authorizeView(ctx, permission.Catalog, methodCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	taxon := &entity.Taxon{
		ID:   uuid.New(),
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, taxon); err != nil {
		return nil, asValidation(err)
	}

	s.log.Info("Created", zap.String("slug", taxon.Slug), zap.String("name", taxon.Name))

	resp := response.TaxonToResponse(taxon)
	return &resp, nil
}

func (s *taxonomyService) Delete(ctx context.Context, slug string) error {
	if err := authorizeView(ctx, permission.Catalog, methodDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return fmt.Errorf("%s %s: %w", s.kind, slug, mapNotFound(err))
	}

	s.log.Info("Deleted", zap.String("slug", slug))
	return nil
}
