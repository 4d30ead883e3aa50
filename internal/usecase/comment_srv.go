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

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo    *repository.Repository
	reviews *reviewService
	log     *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo:    repo,
		reviews: &reviewService{repo: repo, log: log},
		log:     log.With(zap.String("service", "comment")),
	}
}

// reviewScope resolves the review in the path; it must belong to the title.
func (s *commentService) reviewScope(ctx context.Context, titleID, reviewID string) (uuid.UUID, error) {
	review, err := s.reviews.find(ctx, titleID, reviewID)
	if err != nil {
		return uuid.Nil, err
	}
	return review.ID, nil
}

func (s *commentService) find(ctx context.Context, titleID, reviewID, rawCommentID string) (*entity.Comment, error) {
	rid, err := s.reviewScope(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	commentID, err := parseID("comment", rawCommentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, rid, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", rawCommentID, ErrNotFound)
	}
	return comment, nil
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	rid, err := s.reviewScope(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if err := checkPage(req, total); err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, rid, repository.Page{Limit: req.Limit(), Offset: req.Offset()})
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.Map(comments, response.CommentToResponse), req, total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := authorizeView(ctx, permission.Comments, methodCreate); err != nil {
		return nil, err
	}

	rid, err := s.reviewScope(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	author := permission.FromContext(ctx)
	comment := &entity.Comment{
		ID:             uuid.New(),
		ReviewID:       rid,
		AuthorID:       author.UserID,
		Text:           req.Text,
		PubDate:        time.Now(),
		AuthorUsername: author.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID),
		zap.String("author", author.Username),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error) {
	if err := authorizeView(ctx, permission.Comments, methodUpdate); err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeObject(ctx, permission.Comments, methodUpdate, comment.AuthorID); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, mapNotFound(err)
	}

	s.log.Info("Comment updated", zap.String("comment_id", commentID))

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, titleID, reviewID, commentID string) error {
	if err := authorizeView(ctx, permission.Comments, methodDelete); err != nil {
		return err
	}

	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorizeObject(ctx, permission.Comments, methodDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return mapNotFound(err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID),
		zap.String("by", permission.FromContext(ctx).Username),
	)
	return nil
}
