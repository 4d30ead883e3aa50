package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/permission"
	"review-catalog/pkg/database"
	"review-catalog/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
)

// NonFieldErrors is the key for validation failures not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError reports bad input, one message per field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// validate runs the struct tags of req.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// uniqueFields maps database unique constraints to the message clients see.
var uniqueFields = map[string]struct{ field, msg string }{
	"users_username_key":  {"username", "A user with that username already exists"},
	"users_email_key":     {"email", "A user with that email already exists"},
	"categories_slug_key": {"slug", "A category with this slug already exists"},
	"genres_slug_key":     {"slug", "A genre with this slug already exists"},
	"unique_review":       {NonFieldErrors, "You have already reviewed this title"},
}

// asValidation turns a unique violation into a ValidationError and returns
// any other error as is.
func asValidation(err error) error {
	var uniqueErr *database.UniqueError
	if !errors.As(err, &uniqueErr) {
		return err
	}
	if f, ok := uniqueFields[uniqueErr.Constraint]; ok {
		return fieldError(f.field, f.msg)
	}
	return fieldError(NonFieldErrors, "Duplicate value")
}

// denied picks the error for a failed permission check: anonymous callers
// are asked to authenticate, everyone else is refused.
func denied(id permission.Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func authorizeView(ctx context.Context, rule permission.Rule, method string) error {
	id := permission.FromContext(ctx)
	if !rule.AllowView(id, method) {
		return denied(id)
	}
	return nil
}

func authorizeObject(ctx context.Context, rule permission.Rule, method string, ownerID uuid.UUID) error {
	id := permission.FromContext(ctx)
	if !rule.AllowView(id, method) || !rule.AllowObject(id, method, ownerID) {
		return denied(id)
	}
	return nil
}

// checkPage rejects pages that are not positive or lie past the last one.
// The first page always exists, even when empty.
func checkPage(req *request.PaginatedRequest, total int64) error {
	if req.Page < 1 {
		return fmt.Errorf("invalid page: %w", ErrNotFound)
	}
	if req.Page > 1 && int64(req.Offset()) >= total {
		return fmt.Errorf("invalid page %d: %w", req.Page, ErrNotFound)
	}
	return nil
}

const (
	methodCreate = http.MethodPost
	methodUpdate = http.MethodPatch
	methodDelete = http.MethodDelete
	methodRead   = http.MethodGet
)

// mapNotFound translates the repository's not-found into ErrNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
