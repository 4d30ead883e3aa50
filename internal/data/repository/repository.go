package repository

import (
	"errors"

	"review-catalog/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned (wrapped) by writes that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User             UserRepository
	ConfirmationCode ConfirmationCodeRepository
	Category         TaxonomyRepository
	Genre            TaxonomyRepository
	Title            TitleRepository
	Review           ReviewRepository
	Comment          CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		ConfirmationCode: NewConfirmationCodeRepository(db, log),
		Category:         NewTaxonomyRepository(db, TableCategories, log),
		Genre:            NewTaxonomyRepository(db, TableGenres, log),
		Title:            NewTitleRepository(db, log),
		Review:           NewReviewRepository(db, log),
		Comment:          NewCommentRepository(db, log),
	}
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}
