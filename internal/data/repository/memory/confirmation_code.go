package memory

import (
	"context"
	"sort"
	"time"

	"review-catalog/internal/data/entity"

	"github.com/google/uuid"
)

type codeRepo struct{ s *store }

func (r *codeRepo) Create(_ context.Context, code *entity.ConfirmationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.codes[code.ID] = *code
	return nil
}

func (r *codeRepo) FindActiveByUserID(_ context.Context, userID uuid.UUID, now time.Time) ([]*entity.ConfirmationCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var codes []*entity.ConfirmationCode
	for _, c := range r.s.codes {
		if c.UserID == userID && c.Active(now) {
			c := c
			codes = append(codes, &c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].CreatedAt.After(codes[j].CreatedAt) })
	return codes, nil
}

func (r *codeRepo) MarkAsUsed(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.codes[id]
	if !ok || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	r.s.codes[id] = c
	return true, nil
}
