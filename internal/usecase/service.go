package usecase

import (
	"review-catalog/internal/data/repository"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category TaxonomyService
	Genre    TaxonomyService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Sender,
	tokens *token.Manager,
	log *zap.Logger,
) *Service {
	auth := NewAuthService(repo, config, mail, tokens, log)

	return &Service{
		Auth:     auth,
		User:     NewUserService(repo.User, auth, log),
		Category: NewTaxonomyService(repo.Category, "category", log),
		Genre:    NewTaxonomyService(repo.Genre, "genre", log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}
