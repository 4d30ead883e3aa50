package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type titleRepo struct{ s *store }

func (r *titleRepo) link(titleID uuid.UUID, genreIDs []uuid.UUID) {
	links := make(map[uuid.UUID]struct{}, len(genreIDs))
	for _, id := range genreIDs {
		links[id] = struct{}{}
	}
	r.s.titleGenres[titleID] = links
}

func (r *titleRepo) Create(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *title
	stored.Category, stored.Genres, stored.Rating = nil, nil, nil
	r.s.titles[title.ID] = stored
	r.link(title.ID, genreIDs)
	return nil
}

func (r *titleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.titles[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydrate(t), nil
}

func (r *titleRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.titles[id]
	return ok, nil
}

func (r *titleRepo) filter(f repository.TitleFilter) []*entity.Title {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var titles []*entity.Title
	for _, stored := range r.s.titles {
		t := r.s.hydrate(stored)
		if f.Category != "" && (t.Category == nil || !strings.EqualFold(t.Category.Slug, f.Category)) {
			continue
		}
		if f.Genre != "" && !hasGenre(t, f.Genre) {
			continue
		}
		if f.Name != "" && !containsFold(t.Name, f.Name) {
			continue
		}
		if f.Year != nil && t.Year != *f.Year {
			continue
		}
		titles = append(titles, t)
	}

	sort.Slice(titles, func(i, j int) bool {
		if titles[i].Name != titles[j].Name {
			return titles[i].Name < titles[j].Name
		}
		return titles[i].ID.String() < titles[j].ID.String()
	})
	return titles
}

func hasGenre(t *entity.Title, slug string) bool {
	for _, g := range t.Genres {
		if strings.EqualFold(g.Slug, slug) {
			return true
		}
	}
	return false
}

func (r *titleRepo) FindAll(_ context.Context, f repository.TitleFilter, page repository.Page) ([]*entity.Title, error) {
	return window(r.filter(f), page), nil
}

func (r *titleRepo) CountAll(_ context.Context, f repository.TitleFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r *titleRepo) Update(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.titles[title.ID]
	if !ok {
		return fmt.Errorf("update title %s: %w", title.ID, repository.ErrNotFound)
	}

	stored := *title
	stored.CreatedAt = current.CreatedAt
	stored.Category, stored.Genres, stored.Rating = nil, nil, nil
	r.s.titles[title.ID] = stored
	if genreIDs != nil {
		r.link(title.ID, genreIDs)
	}
	return nil
}

func (r *titleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[id]; !ok {
		return fmt.Errorf("delete title %s: %w", id, repository.ErrNotFound)
	}
	r.s.deleteTitle(id)
	return nil
}
