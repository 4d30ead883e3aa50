package memory

import (
	"context"
	"fmt"
	"sort"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type commentRepo struct{ s *store }

func (r *commentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *comment
	stored.AuthorUsername = ""
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *commentRepo) FindByID(_ context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, nil
	}
	c.AuthorUsername = r.s.username(c.AuthorID)
	return &c, nil
}

func (r *commentRepo) FindByReviewID(_ context.Context, reviewID uuid.UUID, page repository.Page) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []*entity.Comment
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			c := c
			c.AuthorUsername = r.s.username(c.AuthorID)
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].PubDate.Equal(comments[j].PubDate) {
			return comments[i].PubDate.After(comments[j].PubDate)
		}
		return comments[i].ID.String() < comments[j].ID.String()
	})
	return window(comments, page), nil
}

func (r *commentRepo) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			n++
		}
	}
	return n, nil
}

func (r *commentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.comments[comment.ID]
	if !ok {
		return fmt.Errorf("update comment %s: %w", comment.ID, repository.ErrNotFound)
	}
	current.Text = comment.Text
	r.s.comments[comment.ID] = current
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return fmt.Errorf("delete comment %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.comments, id)
	return nil
}
