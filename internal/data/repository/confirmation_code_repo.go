package repository

import (
	"context"
	"fmt"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConfirmationCodeRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.ConfirmationCode, error)
	// MarkAsUsed reports false when another request consumed the code first.
	MarkAsUsed(ctx context.Context, id uuid.UUID) (bool, error)
}

type confirmationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationCodeRepository(db database.PgxIface, log *zap.Logger) ConfirmationCodeRepository {
	return &confirmationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

func (r *confirmationCodeRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.IsUsed,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for user %s: %w", code.UserID.String(), err)
	}

	return nil
}

func (r *confirmationCodeRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, is_used, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND is_used = false
		  AND expires_at > $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		r.log.Error("Failed to find active confirmation codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active confirmation codes for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var codes []*entity.ConfirmationCode
	for rows.Next() {
		var code entity.ConfirmationCode
		if err := rows.Scan(
			&code.ID,
			&code.UserID,
			&code.CodeHash,
			&code.ExpiresAt,
			&code.IsUsed,
			&code.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan confirmation code row", zap.Error(err))
			return nil, fmt.Errorf("scan confirmation code row: %w", err)
		}
		codes = append(codes, &code)
	}

	return codes, rows.Err()
}

func (r *confirmationCodeRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE confirmation_codes
		SET is_used = true
		WHERE id = $1 AND is_used = false
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return false, fmt.Errorf("mark confirmation code %s as used: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
