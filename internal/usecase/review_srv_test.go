package usecase

import (
	"errors"
	"testing"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/dto/request"
)

func TestReviewOnePerAuthorAndTitle(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	reader := f.user(t, "reader", entity.RoleUser)
	id := f.catalog(t, admin)

	first, err := f.svc.Review.CreateReview(as(reader), id, &request.ReviewRequest{Text: "good", Score: 7})
	if err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}
	if first.Author != "reader" {
		t.Errorf("author = %q, want reader", first.Author)
	}

	_, err = f.svc.Review.CreateReview(as(reader), id, &request.ReviewRequest{Text: "again", Score: 3})
	fieldErr(t, err, NonFieldErrors)

	if _, err := f.svc.Review.CreateReview(as(admin), id, &request.ReviewRequest{Text: "mine", Score: 5}); err != nil {
		t.Errorf("another author should be able to review: %v", err)
	}
}

func TestReviewValidation(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	reader := f.user(t, "reader", entity.RoleUser)
	id := f.catalog(t, admin)

	for _, score := range []int{0, 11} {
		_, err := f.svc.Review.CreateReview(as(reader), id, &request.ReviewRequest{Text: "x", Score: score})
		fieldErr(t, err, "score")
	}

	_, err := f.svc.Review.CreateReview(as(reader), id, &request.ReviewRequest{Score: 5})
	fieldErr(t, err, "text")

	if _, err := f.svc.Review.CreateReview(anonymous, id, &request.ReviewRequest{Text: "x", Score: 5}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous create: error = %v, want ErrUnauthenticated", err)
	}
	if _, err := f.svc.Review.CreateReview(as(reader), "00000000-0000-0000-0000-000000000000", &request.ReviewRequest{Text: "x", Score: 5}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown title: error = %v, want ErrNotFound", err)
	}
}

func TestReviewPermissions(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	mod := f.user(t, "mod", entity.RoleModerator)
	author := f.user(t, "author", entity.RoleUser)
	stranger := f.user(t, "stranger", entity.RoleUser)
	id := f.catalog(t, admin)

	review, err := f.svc.Review.CreateReview(as(author), id, &request.ReviewRequest{Text: "fine", Score: 6})
	if err != nil {
		t.Fatalf("CreateReview() error = %v", err)
	}

	update := &request.ReviewUpdateRequest{Score: ptr(9)}

	if _, err := f.svc.Review.UpdateReview(anonymous, id, review.ID, update); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: error = %v, want ErrUnauthenticated", err)
	}
	if _, err := f.svc.Review.UpdateReview(as(stranger), id, review.ID, update); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: error = %v, want ErrForbidden", err)
	}
	if err := f.svc.Review.DeleteReview(as(stranger), id, review.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete: error = %v, want ErrForbidden", err)
	}

	got, err := f.svc.Review.UpdateReview(as(author), id, review.ID, update)
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if got.Score != 9 || got.Text != "fine" {
		t.Errorf("review = %+v, want score 9 and unchanged text", got)
	}

	if _, err := f.svc.Review.UpdateReview(as(mod), id, review.ID, &request.ReviewUpdateRequest{Text: ptr("edited")}); err != nil {
		t.Errorf("moderator update: %v", err)
	}

	read, err := f.svc.Review.GetReview(anonymous, id, review.ID)
	if err != nil {
		t.Fatalf("anonymous read: %v", err)
	}
	if read.Text != "edited" || read.Author != "author" {
		t.Errorf("review = %+v", read)
	}

	if err := f.svc.Review.DeleteReview(as(admin), id, review.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := f.svc.Review.GetReview(anonymous, id, review.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestReviewScopedToTitle(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	reader := f.user(t, "reader", entity.RoleUser)
	kid := f.catalog(t, admin)

	other, err := f.svc.Title.CreateTitle(as(admin), &request.TitleRequest{
		Name: "Modern Times", Year: 1936, Category: "movie", Genre: []string{"comedy"},
	})
	if err != nil {
		t.Fatal(err)
	}

	review, err := f.svc.Review.CreateReview(as(reader), kid, &request.ReviewRequest{Text: "ok", Score: 5})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Review.GetReview(anonymous, other.ID, review.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("review under another title: error = %v, want ErrNotFound", err)
	}

	page, err := f.svc.Review.GetTitleReviews(anonymous, other.ID, firstPage())
	if err != nil {
		t.Fatalf("GetTitleReviews() error = %v", err)
	}
	if page.Count != 0 {
		t.Errorf("count = %d, want 0", page.Count)
	}

	page, err = f.svc.Review.GetTitleReviews(anonymous, kid, firstPage())
	if err != nil {
		t.Fatalf("GetTitleReviews() error = %v", err)
	}
	if page.Count != 1 || page.Results[0].ID != review.ID {
		t.Errorf("page = %+v", page)
	}
}
