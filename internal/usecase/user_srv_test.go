package usecase

import (
	"errors"
	"testing"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/permission"
)

func TestUsersAreAdminOnly(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	mod := f.user(t, "mod", entity.RoleModerator)

	if _, err := f.svc.User.GetAllUsers(anonymous, "", firstPage()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: error = %v, want ErrUnauthenticated", err)
	}
	if _, err := f.svc.User.GetAllUsers(as(mod), "", firstPage()); !errors.Is(err, ErrForbidden) {
		t.Errorf("moderator: error = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.User.GetUser(as(mod), "admin"); !errors.Is(err, ErrForbidden) {
		t.Errorf("moderator get: error = %v, want ErrForbidden", err)
	}

	page, err := f.svc.User.GetAllUsers(as(admin), "AD", firstPage())
	if err != nil {
		t.Fatalf("GetAllUsers() error = %v", err)
	}
	if page.Count != 1 || page.Results[0].Username != "admin" {
		t.Errorf("search = %+v", page.Results)
	}
}

func TestSuperuserActsAsAdmin(t *testing.T) {
	f := newFixture(t)

	root, err := f.svc.User.CreateSuperuser(anonymous, "root", "root@example.com")
	if err != nil {
		t.Fatalf("CreateSuperuser() error = %v", err)
	}
	if !root.IsSuperuser || !root.IsAdmin() {
		t.Fatalf("root = %+v, want superuser", root)
	}
	f.mail.lastCode(t, "root@example.com")

	if _, err := f.svc.User.GetAllUsers(as(permission.FromUser(root)), "", firstPage()); err != nil {
		t.Errorf("superuser list: %v", err)
	}
}

func TestAdminManagesUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", entity.RoleAdmin)
	f.user(t, "reader", entity.RoleUser)

	got, err := f.svc.User.UpdateUser(as(admin), "reader", &request.UserUpdateRequest{
		Role: ptr("moderator"),
		Bio:  ptr("likes silent films"),
	})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if got.Role != entity.RoleModerator || got.Bio != "likes silent films" {
		t.Errorf("user = %+v", got)
	}

	_, err = f.svc.User.UpdateUser(as(admin), "reader", &request.UserUpdateRequest{Role: ptr("owner")})
	fieldErr(t, err, "role")

	_, err = f.svc.User.UpdateUser(as(admin), "reader", &request.UserUpdateRequest{Email: ptr("admin@example.com")})
	fieldErr(t, err, "email")

	if _, err := f.svc.User.GetUser(as(admin), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: error = %v, want ErrNotFound", err)
	}

	if err := f.svc.User.DeleteUser(as(admin), "reader"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := f.svc.User.GetUser(as(admin), "reader"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader", entity.RoleUser)

	if _, err := f.svc.User.GetMe(anonymous); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: error = %v, want ErrUnauthenticated", err)
	}

	got, err := f.svc.User.UpdateMe(as(reader), &request.UserUpdateRequest{
		FirstName: ptr("Charlie"),
		Role:      ptr("admin"),
	})
	if err != nil {
		t.Fatalf("UpdateMe() error = %v", err)
	}
	if got.Role != entity.RoleUser {
		t.Errorf("role = %q, want it unchanged", got.Role)
	}
	if got.FirstName != "Charlie" {
		t.Errorf("first name = %q", got.FirstName)
	}

	me, err := f.svc.User.GetMe(as(reader))
	if err != nil {
		t.Fatalf("GetMe() error = %v", err)
	}
	if me.Username != "reader" || me.Role != entity.RoleUser || me.FirstName != "Charlie" {
		t.Errorf("me = %+v", me)
	}
}
