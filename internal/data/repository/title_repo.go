package repository

import (
	"context"
	"errors"
	"fmt"

	"review-catalog/internal/data/entity"
	"review-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows a title listing. Empty strings and a nil Year match everything.
type TitleFilter struct {
	Category string // category slug, case-insensitive
	Genre    string // genre slug, case-insensitive
	Name     string // case-insensitive substring
	Year     *int
}

type TitleRepository interface {
	// Create inserts the title together with its genre links.
	Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter TitleFilter, page Page) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	// Update rewrites the title row. A nil genreIDs keeps the current links,
	// a non-nil one (even empty) replaces them.
	Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id,
	       t.created_at, t.updated_at,
	       c.id, c.name, c.slug,
	       (SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
`

const titleWhere = `
	WHERE ($1 = '' OR LOWER(c.slug) = LOWER($1))
	  AND ($2 = '' OR EXISTS (
	        SELECT 1 FROM title_genres tg
	        JOIN genres g ON g.id = tg.genre_id
	        WHERE tg.title_id = t.id AND LOWER(g.slug) = LOWER($2)))
	  AND ($3 = '' OR t.name ILIKE '%' || $3 || '%')
	  AND ($4::int IS NULL OR t.year = $4)
`

func scanTitle(row pgx.Row) (*entity.Title, error) {
	var (
		title        entity.Title
		categoryID   *uuid.UUID
		categoryName *string
		categorySlug *string
	)
	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
		&title.Rating,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		title.Category = &entity.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	return &title, nil
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	err := database.WithTx(ctx, r.db, func(q database.Querier) error {
		if _, err := q.Exec(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
			title.CreatedAt,
			title.UpdatedAt,
		); err != nil {
			return err
		}
		return replaceGenres(ctx, q, title.ID, genreIDs)
	})

	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, err := scanTitle(r.db.QueryRow(ctx, titleSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find title by id %s: %w", id.String(), err)
	}

	if err := r.loadGenres(ctx, []*entity.Title{title}); err != nil {
		return nil, err
	}

	return title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check title existence", zap.Error(err), zap.String("id", id.String()))
		return false, fmt.Errorf("check title %s exists: %w", id.String(), err)
	}
	return exists, nil
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, page Page) ([]*entity.Title, error) {
	query := titleSelect + titleWhere + `
		ORDER BY t.name, t.id
		LIMIT $5 OFFSET $6
	`

	rows, err := r.db.Query(ctx, query,
		filter.Category,
		filter.Genre,
		filter.Name,
		filter.Year,
		page.Limit,
		page.Offset,
	)
	if err != nil {
		r.log.Error("Failed to get all titles",
			zap.Error(err),
			zap.Any("filter", filter),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find all titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate titles rows: %w", err)
	}

	if err := r.loadGenres(ctx, titles); err != nil {
		return nil, err
	}

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
	` + titleWhere

	var count int64
	err := r.db.QueryRow(ctx, query,
		filter.Category,
		filter.Genre,
		filter.Name,
		filter.Year,
	).Scan(&count)
	if err != nil {
		r.log.Error("Database error counting titles", zap.Error(err))
		return 0, fmt.Errorf("count all titles: %w", err)
	}

	return count, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	err := database.WithTx(ctx, r.db, func(q database.Querier) error {
		result, err := q.Exec(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
			title.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		if genreIDs == nil {
			return nil
		}
		return replaceGenres(ctx, q, title.ID, genreIDs)
	})

	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("Failed to update title",
				zap.Error(err),
				zap.String("title_id", title.ID.String()),
			)
		}
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}

	return nil
}

// Delete removes the title; its reviews, their comments and genre links go with it.
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete title %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Title deleted", zap.String("id", id.String()))
	return nil
}

// loadGenres fills Genres for every title with a single query.
func (r *titleRepository) loadGenres(ctx context.Context, titles []*entity.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(titles))
	byID := make(map[uuid.UUID]*entity.Title, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Genres = []*entity.Genre{}
	}

	query := `
		SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.slug
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to load title genres", zap.Error(err))
		return fmt.Errorf("load title genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID uuid.UUID
			genre   entity.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			r.log.Error("Failed to scan title genre row", zap.Error(err))
			return fmt.Errorf("scan title genre row: %w", err)
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, &genre)
		}
	}

	return rows.Err()
}

func replaceGenres(ctx context.Context, q database.Querier, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("clear title genres: %w", err)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO title_genres (title_id, genre_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := q.Exec(ctx, query, titleID, genreIDs); err != nil {
		return fmt.Errorf("link title genres: %w", err)
	}
	return nil
}
