// Package memory implements the repository interfaces on process memory.
// It mirrors the PostgreSQL schema rules (unique keys, cascades, SET NULL,
// ordering) so services and routes can be tested without a database.
package memory

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/pkg/database"

	"github.com/google/uuid"
)

var errDuplicateKey = errors.New("duplicate key value")

type store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]entity.User
	codes       map[uuid.UUID]entity.ConfirmationCode
	taxa        map[string]map[uuid.UUID]entity.Taxon
	titles      map[uuid.UUID]entity.Title
	titleGenres map[uuid.UUID]map[uuid.UUID]struct{}
	reviews     map[uuid.UUID]entity.Review
	comments    map[uuid.UUID]entity.Comment
}

// NewRepository returns a repository set sharing one empty store.
func NewRepository() *repository.Repository {
	s := &store{
		users: make(map[uuid.UUID]entity.User),
		codes: make(map[uuid.UUID]entity.ConfirmationCode),
		taxa: map[string]map[uuid.UUID]entity.Taxon{
			repository.TableCategories: make(map[uuid.UUID]entity.Taxon),
			repository.TableGenres:     make(map[uuid.UUID]entity.Taxon),
		},
		titles:      make(map[uuid.UUID]entity.Title),
		titleGenres: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		reviews:     make(map[uuid.UUID]entity.Review),
		comments:    make(map[uuid.UUID]entity.Comment),
	}

	return &repository.Repository{
		User:             &userRepo{s},
		ConfirmationCode: &codeRepo{s},
		Category:         &taxonomyRepo{s, repository.TableCategories},
		Genre:            &taxonomyRepo{s, repository.TableGenres},
		Title:            &titleRepo{s},
		Review:           &reviewRepo{s},
		Comment:          &commentRepo{s},
	}
}

func uniqueError(constraint string) error {
	return &database.UniqueError{Constraint: constraint, Err: errDuplicateKey}
}

func window[T any](items []T, page repository.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	end := len(items)
	if page.Limit >= 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// deleteReview drops a review and its comments. Callers hold the write lock.
func (s *store) deleteReview(id uuid.UUID) {
	delete(s.reviews, id)
	for cid, c := range s.comments {
		if c.ReviewID == id {
			delete(s.comments, cid)
		}
	}
}

// deleteTitle drops a title with its reviews and genre links. Callers hold the write lock.
func (s *store) deleteTitle(id uuid.UUID) {
	delete(s.titles, id)
	delete(s.titleGenres, id)
	for rid, r := range s.reviews {
		if r.TitleID == id {
			s.deleteReview(rid)
		}
	}
}

func (s *store) username(id uuid.UUID) string {
	return s.users[id].Username
}

// hydrate fills the read-side joins of a title. Callers hold a lock.
func (s *store) hydrate(t entity.Title) *entity.Title {
	if t.CategoryID != nil {
		if c, ok := s.taxa[repository.TableCategories][*t.CategoryID]; ok {
			t.Category = &c
		}
	}

	t.Genres = []*entity.Genre{}
	for gid := range s.titleGenres[t.ID] {
		if g, ok := s.taxa[repository.TableGenres][gid]; ok {
			t.Genres = append(t.Genres, &g)
		}
	}
	sort.Slice(t.Genres, func(i, j int) bool { return t.Genres[i].Slug < t.Genres[j].Slug })

	var sum, n int
	for _, r := range s.reviews {
		if r.TitleID == t.ID {
			sum += r.Score
			n++
		}
	}
	t.Rating = nil
	if n > 0 {
		avg := float64(sum) / float64(n)
		t.Rating = &avg
	}

	return &t
}
