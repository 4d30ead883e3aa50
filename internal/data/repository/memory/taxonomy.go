package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
)

type taxonomyRepo struct {
	s     *store
	table string
}

func (r *taxonomyRepo) Create(_ context.Context, taxon *entity.Taxon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.taxa[r.table] {
		if t.Slug == taxon.Slug {
			return fmt.Errorf("create %s %s: %w", r.table, taxon.Slug, uniqueError(r.table+"_slug_key"))
		}
	}
	r.s.taxa[r.table][taxon.ID] = *taxon
	return nil
}

func (r *taxonomyRepo) FindBySlug(_ context.Context, slug string) (*entity.Taxon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.taxa[r.table] {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *taxonomyRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Taxon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		want[slug] = true
	}

	var taxa []*entity.Taxon
	for _, t := range r.s.taxa[r.table] {
		if want[t.Slug] {
			t := t
			taxa = append(taxa, &t)
		}
	}
	sort.Slice(taxa, func(i, j int) bool { return taxa[i].Slug < taxa[j].Slug })
	return taxa, nil
}

func (r *taxonomyRepo) filter(name string) []*entity.Taxon {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var taxa []*entity.Taxon
	for _, t := range r.s.taxa[r.table] {
		if name == "" || strings.EqualFold(t.Name, name) {
			t := t
			taxa = append(taxa, &t)
		}
	}
	sort.Slice(taxa, func(i, j int) bool { return taxa[i].Slug < taxa[j].Slug })
	return taxa
}

func (r *taxonomyRepo) FindAll(_ context.Context, name string, page repository.Page) ([]*entity.Taxon, error) {
	return window(r.filter(name), page), nil
}

func (r *taxonomyRepo) CountAll(_ context.Context, name string) (int64, error) {
	return int64(len(r.filter(name))), nil
}

func (r *taxonomyRepo) DeleteBySlug(_ context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.taxa[r.table] {
		if t.Slug != slug {
			continue
		}
		delete(r.s.taxa[r.table], id)

		switch r.table {
		case repository.TableCategories:
			for tid, title := range r.s.titles {
				if title.CategoryID != nil && *title.CategoryID == id {
					title.CategoryID = nil
					r.s.titles[tid] = title
				}
			}
		case repository.TableGenres:
			for _, links := range r.s.titleGenres {
				delete(links, id)
			}
		}
		return nil
	}

	return fmt.Errorf("delete %s %s: %w", r.table, slug, repository.ErrNotFound)
}
