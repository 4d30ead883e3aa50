package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type userRepo struct{ s *store }

func (r *userRepo) checkUnique(u *entity.User) error {
	for id, other := range r.s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return uniqueError("users_username_key")
		}
		if other.Email == u.Email {
			return uniqueError("users_email_key")
		}
	}
	return nil
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *userRepo) filter(search string) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*entity.User
	for _, u := range r.s.users {
		if search == "" || containsFold(u.Username, search) {
			u := u
			users = append(users, &u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepo) FindAll(_ context.Context, search string, page repository.Page) ([]*entity.User, error) {
	return window(r.filter(search), page), nil
}

func (r *userRepo) CountAll(_ context.Context, search string) (int64, error) {
	return int64(len(r.filter(search))), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("update user %s: %w", user.ID, repository.ErrNotFound)
	}
	if err := r.checkUnique(user); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}

	updated := *user
	updated.CreatedAt = current.CreatedAt
	updated.LastLogin = current.LastLogin
	r.s.users[user.ID] = updated
	return nil
}

func (r *userRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		u.LastLogin = &at
		r.s.users[id] = u
	}
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("delete user %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.users, id)

	for cid, c := range r.s.codes {
		if c.UserID == id {
			delete(r.s.codes, cid)
		}
	}
	for rid, rv := range r.s.reviews {
		if rv.AuthorID == id {
			r.s.deleteReview(rid)
		}
	}
	for cid, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}
