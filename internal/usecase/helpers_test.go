package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/data/repository/memory"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/permission"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`confirmation code is (\w+)`)

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

// lastCode returns the most recent code mailed to addr.
func (m *captureMailer) lastCode(t *testing.T, addr string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].to == addr {
			if match := codePattern.FindStringSubmatch(m.sent[i].body); match != nil {
				return match[1]
			}
		}
	}
	t.Fatalf("no confirmation code mailed to %s", addr)
	return ""
}

type fixture struct {
	repo   *repository.Repository
	svc    *Service
	mail   *captureMailer
	tokens *token.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := memory.NewRepository()
	mail := &captureMailer{}
	config := &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		ConfirmationCode: utils.ConfirmationCodeConfig{
			ExpiryMinutes: 60,
			Length:        6,
		},
		Pagination: utils.PaginationConfig{PageSize: 10},
	}
	tokens := token.NewManager(config.JWT.Secret, time.Hour)

	return &fixture{
		repo:   repo,
		svc:    NewService(repo, config, mail, tokens, zap.NewNop()),
		mail:   mail,
		tokens: tokens,
	}
}

// user stores an account directly and returns its identity.
func (f *fixture) user(t *testing.T, username string, role entity.UserRole) permission.Identity {
	t.Helper()

	now := time.Now()
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	if err := f.repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return permission.FromUser(u)
}

// catalog creates category "movie", genres "comedy" and "drama", and one
// title in them. It returns the title id.
func (f *fixture) catalog(t *testing.T, admin permission.Identity) string {
	t.Helper()

	ctx := as(admin)
	for _, req := range []*request.TaxonRequest{{Name: "Movie", Slug: "movie"}} {
		if _, err := f.svc.Category.Create(ctx, req); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}
	for _, req := range []*request.TaxonRequest{{Name: "Drama", Slug: "drama"}, {Name: "Comedy", Slug: "comedy"}} {
		if _, err := f.svc.Genre.Create(ctx, req); err != nil {
			t.Fatalf("create genre: %v", err)
		}
	}

	title, err := f.svc.Title.CreateTitle(ctx, &request.TitleRequest{
		Name:     "The Kid",
		Year:     1921,
		Category: "movie",
		Genre:    []string{"drama", "comedy"},
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}
	return title.ID
}

func as(id permission.Identity) context.Context {
	return permission.WithIdentity(context.Background(), id)
}

var anonymous = context.Background()

func firstPage() *request.PaginatedRequest {
	return &request.PaginatedRequest{Page: 1, PageSize: 10}
}

// fieldErr returns the message for field, failing unless err is a ValidationError.
func fieldErr(t *testing.T, err error, field string) string {
	t.Helper()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	msg, ok := verr.Fields[field]
	if !ok {
		t.Fatalf("validation errors %v have no %q", verr.Fields, field)
	}
	return msg
}

func ptr[T any](v T) *T { return &v }

func mustParse(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return id
}
