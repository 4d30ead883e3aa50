package usecase

import (
	"context"
	"fmt"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/internal/permission"

	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, req *request.UserCreateRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req *request.UserUpdateRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error

	GetMe(ctx context.Context) (*response.UserResponse, error)
	// UpdateMe applies a partial update to the caller's profile. Role is ignored.
	UpdateMe(ctx context.Context, req *request.UserUpdateRequest) (*response.UserResponse, error)

	CreateSuperuser(ctx context.Context, username, email string) (*entity.User, error)
}

type userService struct {
	repo  repository.UserRepository
	codes AuthService
	log   *zap.Logger
}

func NewUserService(repo repository.UserRepository, codes AuthService, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		codes: codes,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := authorizeView(ctx, permission.Users, methodRead); err != nil {
		return nil, err
	}

	total, err := us.repo.CountAll(ctx, search)
	if err != nil {
		return nil, err
	}
	if err := checkPage(req, total); err != nil {
		return nil, err
	}

	users, err := us.repo.FindAll(ctx, search, repository.Page{Limit: req.Limit(), Offset: req.Offset()})
	if err != nil {
		return nil, err
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(response.Map(users, response.UserToResponse), req, total), nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.UserCreateRequest) (*response.UserResponse, error) {
	if err := authorizeView(ctx, permission.Users, methodCreate); err != nil {
		return nil, err
	}

	user, err := us.create(ctx, req, false)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// CreateSuperuser is used by the command line; it skips permission checks.
func (us *userService) CreateSuperuser(ctx context.Context, username, email string) (*entity.User, error) {
	return us.create(ctx, &request.UserCreateRequest{
		Username: username,
		Email:    email,
		Role:     string(entity.RoleAdmin),
	}, true)
}

func (us *userService) create(ctx context.Context, req *request.UserCreateRequest, superuser bool) (*entity.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base:        entity.NewBase(now),
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Bio:         req.Bio,
		Role:        role,
		IsSuperuser: superuser,
	}

	if err := us.repo.Create(ctx, user); err != nil {
		return nil, asValidation(err)
	}

	// The new account has no other way to obtain a token.
	if _, err := us.codes.SendConfirmationCode(ctx, user); err != nil {
		if delErr := us.repo.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			us.log.Error("Failed to roll back user creation", zap.Error(delErr), zap.String("user_id", user.ID.String()))
		}
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}

	us.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.Bool("superuser", superuser),
	)

	return user, nil
}

func (us *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return user, nil
}

func (us *userService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	if err := authorizeView(ctx, permission.Users, methodRead); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, username string, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	if err := authorizeView(ctx, permission.Users, methodUpdate); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return us.update(ctx, user, req, true)
}

func (us *userService) DeleteUser(ctx context.Context, username string) error {
	if err := authorizeView(ctx, permission.Users, methodDelete); err != nil {
		return err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := us.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	us.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("by", permission.FromContext(ctx).Username),
	)
	return nil
}

func (us *userService) me(ctx context.Context, method string) (*entity.User, error) {
	if err := authorizeView(ctx, permission.Me, method); err != nil {
		return nil, err
	}

	id := permission.FromContext(ctx)
	user, err := us.repo.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id.UserID, ErrNotFound)
	}
	return user, nil
}

func (us *userService) GetMe(ctx context.Context) (*response.UserResponse, error) {
	user, err := us.me(ctx, methodRead)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateMe(ctx context.Context, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	user, err := us.me(ctx, methodUpdate)
	if err != nil {
		return nil, err
	}

	return us.update(ctx, user, req, false)
}

func (us *userService) update(ctx context.Context, user *entity.User, req *request.UserUpdateRequest, allowRole bool) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil && allowRole {
		user.Role = entity.UserRole(*req.Role)
	}
	user.Touch(time.Now())

	if err := us.repo.Update(ctx, user); err != nil {
		return nil, asValidation(err)
	}

	us.log.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("by", permission.FromContext(ctx).Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}
