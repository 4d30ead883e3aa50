package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"review-catalog/internal/data/repository/memory"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`confirmation code is (\w+)`)

type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *inbox) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match := codePattern.FindStringSubmatch(body); match != nil {
		m.codes[to] = match[1]
	}
	return nil
}

func (m *inbox) code(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[to]
	if !ok {
		t.Fatalf("no code mailed to %s", to)
	}
	return code
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type api struct {
	t     *testing.T
	app   *App
	inbox *inbox
}

func newAPI(t *testing.T, db Pinger) *api {
	t.Helper()

	config := &utils.Config{
		JWT:              utils.JWTConfig{Secret: "router-test", ExpiryHours: 1},
		ConfirmationCode: utils.ConfirmationCodeConfig{ExpiryMinutes: 60, Length: 6},
		Pagination:       utils.PaginationConfig{PageSize: 2},
	}
	mail := &inbox{codes: map[string]string{}}

	return &api{
		t:     t,
		app:   Wiring(memory.NewRepository(), db, mail, config, zap.NewNop()),
		inbox: mail,
	}
}

// do sends a request and decodes a JSON response into out when given.
func (a *api) do(method, path, token string, body any, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

// signup registers a user over HTTP and returns a token for them.
func (a *api) signup(username string) string {
	a.t.Helper()

	email := username + "@example.com"
	if code := a.do(http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{
		"username": username, "email": email,
	}, nil); code != http.StatusOK {
		a.t.Fatalf("signup %s: status %d", username, code)
	}
	return a.token(username, email)
}

func (a *api) token(username, email string) string {
	a.t.Helper()

	var resp struct{ Token string }
	if code := a.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"username": username, "confirmation_code": a.inbox.code(a.t, email),
	}, &resp); code != http.StatusOK {
		a.t.Fatalf("token %s: status %d", username, code)
	}
	return resp.Token
}

// admin creates a superuser and returns its token.
func (a *api) admin() string {
	a.t.Helper()

	if _, err := a.app.Service.User.CreateSuperuser(context.Background(), "root", "root@example.com"); err != nil {
		a.t.Fatal(err)
	}
	return a.token("root", "root@example.com")
}

func (a *api) seed(admin string) string {
	a.t.Helper()

	for _, c := range []struct{ path, name, slug string }{
		{"/api/v1/categories/", "Movie", "movie"},
		{"/api/v1/genres/", "Drama", "drama"},
	} {
		if code := a.do(http.MethodPost, c.path, admin, map[string]string{"name": c.name, "slug": c.slug}, nil); code != http.StatusCreated {
			a.t.Fatalf("create %s: status %d", c.slug, code)
		}
	}

	var title struct{ ID string }
	if code := a.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{
		"name": "The Kid", "year": 1921, "category": "movie", "genre": []string{"drama"},
	}, &title); code != http.StatusCreated {
		a.t.Fatalf("create title: status %d", code)
	}
	return title.ID
}

func TestHealth(t *testing.T) {
	var body map[string]string

	if code := newAPI(t, nil).do(http.MethodGet, "/health", "", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthy: status %d, body %v", code, body)
	}
	if code := newAPI(t, failingPinger{}).do(http.MethodGet, "/health", "", nil, &body); code != http.StatusServiceUnavailable {
		t.Errorf("database down: status %d, want 503", code)
	}
}

func TestSignupAndTokenFlow(t *testing.T) {
	a := newAPI(t, nil)
	token := a.signup("alice")

	var me map[string]any
	if code := a.do(http.MethodGet, "/api/v1/users/me/", token, nil, &me); code != http.StatusOK {
		t.Fatalf("me: status %d", code)
	}
	if me["username"] != "alice" || me["role"] != "user" {
		t.Errorf("me = %v", me)
	}

	var errs map[string][]string
	if code := a.do(http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{
		"username": "me", "email": "me@example.com",
	}, &errs); code != http.StatusBadRequest || len(errs["username"]) != 1 {
		t.Errorf("reserved username: status %d, errors %v", code, errs)
	}

	if code := a.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"username": "alice", "confirmation_code": "wrong1",
	}, nil); code != http.StatusBadRequest {
		t.Errorf("wrong code: status %d, want 400", code)
	}
	if code := a.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"username": "bob", "confirmation_code": "abc123",
	}, nil); code != http.StatusNotFound {
		t.Errorf("unknown user: status %d, want 404", code)
	}
}

func TestAuthenticationErrors(t *testing.T) {
	a := newAPI(t, nil)

	var detail map[string]string
	if code := a.do(http.MethodGet, "/api/v1/users/me", "", nil, &detail); code != http.StatusUnauthorized || detail["detail"] == "" {
		t.Errorf("anonymous me: status %d, body %v", code, detail)
	}
	if code := a.do(http.MethodGet, "/api/v1/titles/", "garbage", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("bad token on public route: status %d, want 401", code)
	}

	user := a.signup("alice")
	if code := a.do(http.MethodGet, "/api/v1/users/", user, nil, nil); code != http.StatusForbidden {
		t.Errorf("user listing users: status %d, want 403", code)
	}
	if code := a.do(http.MethodPost, "/api/v1/genres/", user, map[string]string{"name": "Noir", "slug": "noir"}, nil); code != http.StatusForbidden {
		t.Errorf("user creating genre: status %d, want 403", code)
	}
}

func TestCatalogAndReviews(t *testing.T) {
	a := newAPI(t, nil)
	admin := a.admin()
	titleID := a.seed(admin)
	alice := a.signup("alice")
	bob := a.signup("bob")

	reviews := "/api/v1/titles/" + titleID + "/reviews/"

	var review struct{ ID, Author string }
	if code := a.do(http.MethodPost, reviews, alice, map[string]any{"text": "lovely", "score": 8}, &review); code != http.StatusCreated {
		t.Fatalf("create review: status %d", code)
	}
	if review.Author != "alice" {
		t.Errorf("author = %q", review.Author)
	}

	var errs map[string][]string
	if code := a.do(http.MethodPost, reviews, alice, map[string]any{"text": "again", "score": 2}, &errs); code != http.StatusBadRequest || len(errs["non_field_errors"]) != 1 {
		t.Errorf("duplicate review: status %d, errors %v", code, errs)
	}

	if code := a.do(http.MethodPost, reviews, bob, map[string]any{"text": "fine", "score": 5}, nil); code != http.StatusCreated {
		t.Fatalf("second review: status %d", code)
	}

	var title map[string]any
	if code := a.do(http.MethodGet, "/api/v1/titles/"+titleID, "", nil, &title); code != http.StatusOK {
		t.Fatalf("get title: status %d", code)
	}
	if title["rating"] != 6.5 {
		t.Errorf("rating = %v, want 6.5", title["rating"])
	}
	if category, _ := title["category"].(map[string]any); category["slug"] != "movie" {
		t.Errorf("category = %v", title["category"])
	}

	reviewURL := reviews + review.ID + "/"
	if code := a.do(http.MethodPatch, reviewURL, bob, map[string]any{"score": 1}, nil); code != http.StatusForbidden {
		t.Errorf("bob editing alice's review: status %d, want 403", code)
	}
	if code := a.do(http.MethodGet, reviewURL, bob, nil, nil); code != http.StatusOK {
		t.Errorf("bob reading alice's review: status %d, want 200", code)
	}

	comments := reviewURL + "comments/"
	var comment struct{ ID string }
	if code := a.do(http.MethodPost, comments, bob, map[string]string{"text": "agreed"}, &comment); code != http.StatusCreated {
		t.Fatalf("create comment: status %d", code)
	}
	if code := a.do(http.MethodDelete, comments+comment.ID, alice, nil, nil); code != http.StatusForbidden {
		t.Errorf("alice deleting bob's comment: status %d, want 403", code)
	}
	if code := a.do(http.MethodDelete, comments+comment.ID, admin, nil, nil); code != http.StatusNoContent {
		t.Errorf("admin deleting comment: status %d, want 204", code)
	}

	if code := a.do(http.MethodDelete, "/api/v1/titles/"+titleID+"/", admin, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete title: status %d", code)
	}
	if code := a.do(http.MethodGet, reviewURL, "", nil, nil); code != http.StatusNotFound {
		t.Errorf("review after title delete: status %d, want 404", code)
	}
}

func TestPaginationEnvelope(t *testing.T) {
	a := newAPI(t, nil)
	admin := a.admin()

	for _, slug := range []string{"a", "b", "c"} {
		if code := a.do(http.MethodPost, "/api/v1/genres", admin, map[string]string{"name": strings.ToUpper(slug), "slug": slug}, nil); code != http.StatusCreated {
			t.Fatalf("create genre %s: status %d", slug, code)
		}
	}

	var page struct {
		Count    int
		Next     *string
		Previous *string
		Results  []struct{ Slug string }
	}
	if code := a.do(http.MethodGet, "/api/v1/genres/", "", nil, &page); code != http.StatusOK {
		t.Fatalf("page 1: status %d", code)
	}
	if page.Count != 3 || len(page.Results) != 2 || page.Previous != nil {
		t.Fatalf("page 1 = %+v", page)
	}
	if page.Next == nil || *page.Next != "http://example.com/api/v1/genres/?page=2" {
		t.Errorf("next = %v", page.Next)
	}

	if code := a.do(http.MethodGet, "/api/v1/genres/?page=2", "", nil, &page); code != http.StatusOK {
		t.Fatalf("page 2: status %d", code)
	}
	if len(page.Results) != 1 || page.Results[0].Slug != "c" || page.Next != nil {
		t.Errorf("page 2 = %+v", page)
	}
	if page.Previous == nil || *page.Previous != "http://example.com/api/v1/genres/" {
		t.Errorf("previous = %v", page.Previous)
	}

	if code := a.do(http.MethodGet, "/api/v1/genres/?page=3", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("page past the end: status %d, want 404", code)
	}
}

func TestMalformedRequests(t *testing.T) {
	a := newAPI(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "detail") {
		t.Errorf("malformed JSON: status %d, body %s", rec.Code, rec.Body.String())
	}

	if code := a.do(http.MethodGet, "/api/v1/titles/not-a-uuid/", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("malformed id: status %d, want 404", code)
	}
	if code := a.do(http.MethodGet, "/api/v1/titles/?year=soon", "", nil, nil); code != http.StatusBadRequest {
		t.Errorf("bad year filter: status %d, want 400", code)
	}
	if code := a.do(http.MethodPut, "/api/v1/genres/", "", nil, nil); code != http.StatusMethodNotAllowed {
		t.Errorf("PUT on list: status %d, want 405", code)
	}
	if code := a.do(http.MethodGet, "/api/v1/nowhere", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown route: status %d, want 404", code)
	}
}
