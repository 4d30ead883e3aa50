package token

import (
	"errors"
	"testing"
	"time"

	"review-catalog/internal/data/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testUser() *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: "reader",
		Role:     entity.RoleModerator,
	}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	user := testUser()

	raw, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Username != "reader" || claims.Role != entity.RoleModerator {
		t.Errorf("claims = %+v", claims)
	}
	if claims.TokenType != TypeAccess {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TypeAccess)
	}
}

func TestParseRejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	user := testUser()

	valid, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired := NewManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    user.ID,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name string
		m    *Manager
		raw  string
	}{
		{"garbage", m, "not-a-token"},
		{"wrong secret", NewManager("other", time.Hour), valid},
		{"expired", m, stale},
		{"wrong type", m, wrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Parse(tt.raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
