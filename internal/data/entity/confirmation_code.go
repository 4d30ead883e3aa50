package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationCode is a single-use credential mailed at signup. Only the
// bcrypt hash of the code is stored.
type ConfirmationCode struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

// Active reports whether the code can still be exchanged at the given time.
func (c *ConfirmationCode) Active(now time.Time) bool {
	return !c.IsUsed && now.Before(c.ExpiresAt)
}
