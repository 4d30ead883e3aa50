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

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

// titleScope resolves the title in the path.
func (s *reviewService) titleScope(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := parseID("title", rawID)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.repo.Title.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, fmt.Errorf("title %s: %w", rawID, ErrNotFound)
	}
	return id, nil
}

func (s *reviewService) find(ctx context.Context, rawTitleID, rawReviewID string) (*entity.Review, error) {
	titleID, err := s.titleScope(ctx, rawTitleID)
	if err != nil {
		return nil, err
	}
	reviewID, err := parseID("review", rawReviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", rawReviewID, ErrNotFound)
	}
	return review, nil
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := s.titleScope(ctx, titleID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Review.CountByTitleID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkPage(req, total); err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, id, repository.Page{Limit: req.Limit(), Offset: req.Offset()})
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.Map(reviews, response.ReviewToResponse), req, total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	if err := authorizeView(ctx, permission.Reviews, methodCreate); err != nil {
		return nil, err
	}

	id, err := s.titleScope(ctx, titleID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	author := permission.FromContext(ctx)

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, author.UserID, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fieldError(NonFieldErrors, uniqueFields["unique_review"].msg)
	}

	review := &entity.Review{
		ID:             uuid.New(),
		TitleID:        id,
		AuthorID:       author.UserID,
		Text:           req.Text,
		Score:          req.Score,
		PubDate:        time.Now(),
		AuthorUsername: author.Username,
	}

	// Two concurrent posts both pass the check above; the unique key decides.
	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, asValidation(err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID),
		zap.String("author", author.Username),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error) {
	if err := authorizeView(ctx, permission.Reviews, methodUpdate); err != nil {
		return nil, err
	}

	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorizeObject(ctx, permission.Reviews, methodUpdate, review.AuthorID); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, mapNotFound(err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("by", permission.FromContext(ctx).Username),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, titleID, reviewID string) error {
	if err := authorizeView(ctx, permission.Reviews, methodDelete); err != nil {
		return err
	}

	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorizeObject(ctx, permission.Reviews, methodDelete, review.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return mapNotFound(err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("by", permission.FromContext(ctx).Username),
	)
	return nil
}
