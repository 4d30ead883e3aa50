package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/dto/request"
)

func TestSignUpThenToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Auth.SignUp(ctx, &request.SignUpRequest{Username: "reader", Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if resp.Username != "reader" || resp.Email != "reader@example.com" {
		t.Errorf("SignUp() = %+v, want echo of input", resp)
	}

	code := f.mail.lastCode(t, "reader@example.com")

	_, err = f.svc.Auth.Token(ctx, &request.TokenRequest{Username: "reader", ConfirmationCode: code + "x"})
	fieldErr(t, err, "confirmation_code")

	_, err = f.svc.Auth.Token(ctx, &request.TokenRequest{Username: "nobody", ConfirmationCode: code})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: error = %v, want ErrNotFound", err)
	}

	tok, err := f.svc.Auth.Token(ctx, &request.TokenRequest{Username: "reader", ConfirmationCode: code})
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	claims, err := f.tokens.Parse(tok.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Username != "reader" {
		t.Errorf("claims.Username = %q", claims.Username)
	}

	user, _ := f.repo.User.FindByUsername(ctx, "reader")
	if user.LastLogin == nil {
		t.Error("last_login not stamped")
	}

	_, err = f.svc.Auth.Token(ctx, &request.TokenRequest{Username: "reader", ConfirmationCode: code})
	fieldErr(t, err, "confirmation_code")
}

func TestSignUpRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Auth.SignUp(ctx, &request.SignUpRequest{Username: "taken", Email: "taken@example.com"}); err != nil {
		t.Fatalf("seed signup: %v", err)
	}

	tests := []struct {
		name  string
		req   request.SignUpRequest
		field string
	}{
		{"reserved username", request.SignUpRequest{Username: "me", Email: "me@example.com"}, "username"},
		{"duplicate username", request.SignUpRequest{Username: "taken", Email: "other@example.com"}, "username"},
		{"duplicate email", request.SignUpRequest{Username: "other", Email: "TAKEN@example.com"}, "email"},
		{"bad email", request.SignUpRequest{Username: "other", Email: "nope"}, "email"},
		{"missing username", request.SignUpRequest{Email: "x@example.com"}, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.SignUp(ctx, &tt.req)
			fieldErr(t, err, tt.field)
		})
	}

	total, _ := f.repo.User.CountAll(ctx, "")
	if total != 1 {
		t.Errorf("user count = %d, want 1", total)
	}
}

func TestSignUpMailFailureLeavesNothing(t *testing.T) {
	f := newFixture(t)
	f.mail.fail = errors.New("smtp down")
	ctx := context.Background()

	if _, err := f.svc.Auth.SignUp(ctx, &request.SignUpRequest{Username: "reader", Email: "reader@example.com"}); err == nil {
		t.Fatal("SignUp() should fail when mail cannot be sent")
	}

	if user, _ := f.repo.User.FindByUsername(ctx, "reader"); user != nil {
		t.Fatal("user should have been removed after mail failure")
	}

	f.mail.fail = nil
	if _, err := f.svc.Auth.SignUp(ctx, &request.SignUpRequest{Username: "reader", Email: "reader@example.com"}); err != nil {
		t.Fatalf("retry SignUp() error = %v", err)
	}
}

func TestTokenRejectsExpiredCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Auth.SignUp(ctx, &request.SignUpRequest{Username: "late", Email: "late@example.com"}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	code := f.mail.lastCode(t, "late@example.com")

	auth := f.svc.Auth.(*authService)
	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := f.svc.Auth.Token(ctx, &request.TokenRequest{Username: "late", ConfirmationCode: code})
	fieldErr(t, err, "confirmation_code")
}

func TestAdminCreatedUserGetsCode(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)

	if _, err := f.svc.User.CreateUser(as(admin), &request.UserCreateRequest{
		Username: "invited",
		Email:    "invited@example.com",
		Role:     "moderator",
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	code := f.mail.lastCode(t, "invited@example.com")
	tok, err := f.svc.Auth.Token(context.Background(), &request.TokenRequest{Username: "invited", ConfirmationCode: code})
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	claims, _ := f.tokens.Parse(tok.Token)
	if claims == nil || claims.Role != entity.RoleModerator {
		t.Errorf("claims = %+v, want moderator", claims)
	}
}
