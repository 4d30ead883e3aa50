package memory

import (
	"context"
	"fmt"
	"sort"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type reviewRepo struct{ s *store }

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.reviews {
		if other.AuthorID == review.AuthorID && other.TitleID == review.TitleID {
			return fmt.Errorf("create review for title %s: %w", review.TitleID, uniqueError("unique_review"))
		}
	}
	stored := *review
	stored.AuthorUsername = ""
	r.s.reviews[review.ID] = stored
	return nil
}

func (r *reviewRepo) find(match func(entity.Review) bool) *entity.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rv := range r.s.reviews {
		if match(rv) {
			rv.AuthorUsername = r.s.username(rv.AuthorID)
			return &rv
		}
	}
	return nil
}

func (r *reviewRepo) FindByID(_ context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	return r.find(func(rv entity.Review) bool { return rv.ID == id && rv.TitleID == titleID }), nil
}

func (r *reviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	return r.find(func(rv entity.Review) bool { return rv.AuthorID == authorID && rv.TitleID == titleID }), nil
}

func (r *reviewRepo) FindByTitleID(_ context.Context, titleID uuid.UUID, page repository.Page) ([]*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var reviews []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			rv := rv
			rv.AuthorUsername = r.s.username(rv.AuthorID)
			reviews = append(reviews, &rv)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].PubDate.Equal(reviews[j].PubDate) {
			return reviews[i].PubDate.After(reviews[j].PubDate)
		}
		return reviews[i].ID.String() < reviews[j].ID.String()
	})
	return window(reviews, page), nil
}

func (r *reviewRepo) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rv := range r.s.reviews {
		if rv.TitleID == titleID {
			n++
		}
	}
	return n, nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("update review %s: %w", review.ID, repository.ErrNotFound)
	}
	current.Text = review.Text
	current.Score = review.Score
	r.s.reviews[review.ID] = current
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return fmt.Errorf("delete review %s: %w", id, repository.ErrNotFound)
	}
	r.s.deleteReview(id)
	return nil
}
