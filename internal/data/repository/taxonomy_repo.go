package repository

import (
	"context"
	"errors"
	"fmt"

	"review-catalog/internal/data/entity"
	"review-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Tables holding slug-keyed taxa. The value is interpolated into SQL, so only
// these constants are accepted.
const (
	TableCategories = "categories"
	TableGenres     = "genres"
)

// TaxonomyRepository stores categories or genres, depending on its table.
type TaxonomyRepository interface {
	Create(ctx context.Context, taxon *entity.Taxon) error
	FindBySlug(ctx context.Context, slug string) (*entity.Taxon, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Taxon, error)
	FindAll(ctx context.Context, name string, page Page) ([]*entity.Taxon, error)
	CountAll(ctx context.Context, name string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type taxonomyRepository struct {
	db    database.PgxIface
	table string
	log   *zap.Logger
}

func NewTaxonomyRepository(db database.PgxIface, table string, log *zap.Logger) TaxonomyRepository {
	if table != TableCategories && table != TableGenres {
		panic(fmt.Sprintf("repository: unknown taxonomy table %q", table))
	}
	return &taxonomyRepository{
		db:    db,
		table: table,
		log:   log.With(zap.String("repository", table)),
	}
}

func (r *taxonomyRepository) Create(ctx context.Context, taxon *entity.Taxon) error {
	query := `INSERT INTO ` + r.table + ` (id, name, slug) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, query, taxon.ID, taxon.Name, taxon.Slug); err != nil {
		err = database.ClassifyError(err)
		if !errors.Is(err, database.ErrUniqueViolation) {
			r.log.Error("Failed to create taxon", zap.Error(err), zap.String("slug", taxon.Slug))
		}
		return fmt.Errorf("create %s %s: %w", r.table, taxon.Slug, err)
	}

	return nil
}

func (r *taxonomyRepository) FindBySlug(ctx context.Context, slug string) (*entity.Taxon, error) {
	query := `SELECT id, name, slug FROM ` + r.table + ` WHERE slug = $1`

	var taxon entity.Taxon
	err := r.db.QueryRow(ctx, query, slug).Scan(&taxon.ID, &taxon.Name, &taxon.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find taxon by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find %s by slug %s: %w", r.table, slug, err)
	}

	return &taxon, nil
}

// FindBySlugs returns the taxa that exist among slugs, ordered by slug.
func (r *taxonomyRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Taxon, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, slug FROM ` + r.table + ` WHERE slug = ANY($1) ORDER BY slug`
	return r.list(ctx, query, slugs)
}

func (r *taxonomyRepository) FindAll(ctx context.Context, name string, page Page) ([]*entity.Taxon, error) {
	query := `
		SELECT id, name, slug FROM ` + r.table + `
		WHERE ($1 = '' OR LOWER(name) = LOWER($1))
		ORDER BY slug
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, name, page.Limit, page.Offset)
}

func (r *taxonomyRepository) CountAll(ctx context.Context, name string) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + r.table + ` WHERE ($1 = '' OR LOWER(name) = LOWER($1))`

	var count int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&count); err != nil {
		r.log.Error("Failed to count taxa", zap.Error(err))
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	return count, nil
}

// DeleteBySlug removes the taxon. Titles drop a deleted category (set to
// NULL) and lose the link to a deleted genre.
func (r *taxonomyRepository) DeleteBySlug(ctx context.Context, slug string) error {
	query := `DELETE FROM ` + r.table + ` WHERE slug = $1`

	result, err := r.db.Exec(ctx, query, slug)
	if err != nil {
		r.log.Error("Failed to delete taxon", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("delete %s %s: %w", r.table, slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete %s %s: %w", r.table, slug, ErrNotFound)
	}

	r.log.Info("Taxon deleted", zap.String("slug", slug))
	return nil
}

func (r *taxonomyRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Taxon, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list taxa", zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var taxa []*entity.Taxon
	for rows.Next() {
		var taxon entity.Taxon
		if err := rows.Scan(&taxon.ID, &taxon.Name, &taxon.Slug); err != nil {
			r.log.Error("Failed to scan taxon row", zap.Error(err))
			return nil, fmt.Errorf("scan %s row: %w", r.table, err)
		}
		taxa = append(taxa, &taxon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.table, err)
	}

	return taxa, nil
}
