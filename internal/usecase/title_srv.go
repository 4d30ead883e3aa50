package usecase

import (
	"context"
	"fmt"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/permission"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	GetAllTitles(ctx context.Context, filter request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitle(ctx context.Context, id string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, id string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, id string) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

// parseID treats a malformed id like an unknown one.
func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", kind, raw, ErrNotFound)
	}
	return id, nil
}

func (s *titleService) GetAllTitles(ctx context.Context, filter request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	f := repository.TitleFilter{
		Category: filter.Category,
		Genre:    filter.Genre,
		Name:     filter.Name,
		Year:     filter.Year,
	}

	total, err := s.repo.Title.CountAll(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := checkPage(req, total); err != nil {
		return nil, err
	}

	titles, err := s.repo.Title.FindAll(ctx, f, repository.Page{Limit: req.Limit(), Offset: req.Offset()})
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.Map(titles, response.TitleToResponse), req, total), nil
}

func (s *titleService) find(ctx context.Context, rawID string) (*entity.Title, error) {
	id, err := parseID("title", rawID)
	if err != nil {
		return nil, err
	}

	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", rawID, ErrNotFound)
	}
	return title, nil
}

func (s *titleService) GetTitle(ctx context.Context, id string) (*response.TitleResponse, error) {
	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := authorizeView(ctx, permission.Catalog, methodCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		Base:        entity.NewBase(now),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genres", len(genreIDs)),
	)

	return s.GetTitle(ctx, title.ID.String())
}

func (s *titleService) UpdateTitle(ctx context.Context, id string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := authorizeView(ctx, permission.Catalog, methodUpdate); err != nil {
		return nil, err
	}

	title, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	var genreIDs []uuid.UUID
	if req.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, req.Genre); err != nil {
			return nil, err
		}
	}
	title.Touch(time.Now())

	if err := s.repo.Title.Update(ctx, title, genreIDs); err != nil {
		return nil, mapNotFound(err)
	}

	s.log.Info("Title updated", zap.String("title_id", id))

	return s.GetTitle(ctx, id)
}

func (s *titleService) DeleteTitle(ctx context.Context, id string) error {
	if err := authorizeView(ctx, permission.Catalog, methodDelete); err != nil {
		return err
	}

	titleID, err := parseID("title", id)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, titleID); err != nil {
		return mapNotFound(err)
	}

	s.log.Info("Title deleted", zap.String("title_id", id))
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fieldError("category", fmt.Sprintf("Category with slug %q does not exist", slug))
	}
	return category, nil
}

// resolveGenres maps slugs to ids. The result is non-nil even for an empty
// list so callers can tell "clear" from "keep".
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(slugs))
	if len(slugs) == 0 {
		return ids, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]uuid.UUID, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}

	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			return nil, fieldError("genre", fmt.Sprintf("Genre with slug %q does not exist", slug))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
