package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/migrations"
	"review-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// openTestDB connects to TEST_DATABASE_URL and recreates the schema. The
// database is wiped, so point it at a throwaway instance.
func openTestDB(t *testing.T) database.PgxIface {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(url, 4)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	ctx := context.Background()
	for _, name := range []string{"000001_init_schema.down.sql", "000001_init_schema.up.sql"} {
		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(ctx, string(sql)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return db
}

func TestPostgresCatalog(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, zaptest.NewLogger(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	newUser := func(name string) *entity.User {
		u := &entity.User{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Username: name,
			Email:    name + "@example.com",
			Role:     entity.RoleUser,
		}
		if err := repo.User.Create(ctx, u); err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
		return u
	}
	alice, bob := newUser("alice"), newUser("bob")

	dup := &entity.User{Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}, Username: "alice", Email: "other@example.com", Role: entity.RoleUser}
	var uniqueErr *database.UniqueError
	if err := repo.User.Create(ctx, dup); !errors.As(err, &uniqueErr) || uniqueErr.Constraint != "users_username_key" {
		t.Errorf("duplicate username: error = %v", err)
	}

	movie := &entity.Category{ID: uuid.New(), Name: "Movie", Slug: "movie"}
	drama := &entity.Genre{ID: uuid.New(), Name: "Drama", Slug: "drama"}
	comedy := &entity.Genre{ID: uuid.New(), Name: "Comedy", Slug: "comedy"}
	if err := repo.Category.Create(ctx, movie); err != nil {
		t.Fatal(err)
	}
	for _, g := range []*entity.Genre{drama, comedy} {
		if err := repo.Genre.Create(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	title := &entity.Title{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:       "The Kid",
		Year:       1921,
		CategoryID: &movie.ID,
	}
	if err := repo.Title.Create(ctx, title, []uuid.UUID{drama.ID, comedy.ID}); err != nil {
		t.Fatalf("create title: %v", err)
	}

	for _, r := range []struct {
		author *entity.User
		score  int
	}{{alice, 4}, {bob, 9}} {
		review := &entity.Review{ID: uuid.New(), TitleID: title.ID, AuthorID: r.author.ID, Text: "ok", Score: r.score, PubDate: now}
		if err := repo.Review.Create(ctx, review); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	again := &entity.Review{ID: uuid.New(), TitleID: title.ID, AuthorID: alice.ID, Text: "again", Score: 1, PubDate: now}
	if err := repo.Review.Create(ctx, again); !errors.As(err, &uniqueErr) || uniqueErr.Constraint != "unique_review" {
		t.Errorf("second review: error = %v", err)
	}

	got, err := repo.Title.FindByID(ctx, title.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID() = %v, %v", got, err)
	}
	if got.Rating == nil || *got.Rating != 6.5 {
		t.Errorf("rating = %v, want 6.5", got.Rating)
	}
	if got.Category == nil || got.Category.Slug != "movie" {
		t.Errorf("category = %+v", got.Category)
	}
	if len(got.Genres) != 2 || got.Genres[0].Slug != "comedy" {
		t.Errorf("genres = %+v", got.Genres)
	}

	year := 1921
	n, err := repo.Title.CountAll(ctx, TitleFilter{Genre: "DRAMA", Name: "kid", Year: &year})
	if err != nil || n != 1 {
		t.Errorf("filtered count = %d, %v", n, err)
	}

	if err := repo.Category.DeleteBySlug(ctx, "movie"); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Title.FindByID(ctx, title.ID)
	if got.Category != nil || got.CategoryID != nil {
		t.Errorf("category after delete = %+v", got.Category)
	}

	if err := repo.Title.Delete(ctx, title.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := repo.Review.CountByTitleID(ctx, title.ID); n != 0 {
		t.Errorf("%d reviews survived title delete", n)
	}
	if err := repo.Title.Delete(ctx, title.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}
}
