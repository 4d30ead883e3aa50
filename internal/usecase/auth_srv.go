package usecase

import (
	"context"
	"fmt"
	"time"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/dto/request"
	"review-catalog/internal/dto/response"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"go.uber.org/zap"
)

const confirmationSubject = "Your confirmation code"

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
	// SendConfirmationCode stores a fresh code for the user, mails it and
	// returns it in clear text.
	SendConfirmationCode(ctx context.Context, user *entity.User) (string, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	mail   mailer.Sender
	tokens *token.Manager
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Sender,
	tokens *token.Manager,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		tokens: tokens,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.SignUpResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, fieldError("username", uniqueFields["users_username_key"].msg)
	}

	existing, err = s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fieldError("email", uniqueFields["users_email_key"].msg)
	}

	now := s.now()
	user := &entity.User{
		Base:     entity.NewBase(now),
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, asValidation(err)
	}

	if _, err := s.SendConfirmationCode(ctx, user); err != nil {
		// Undo the signup so the same username and email can try again.
		if delErr := s.repo.User.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			s.log.Error("Failed to roll back signup",
				zap.Error(delErr),
				zap.String("user_id", user.ID.String()),
			)
		}
		return nil, fmt.Errorf("signup %s: %w", user.Username, err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &response.SignUpResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) SendConfirmationCode(ctx context.Context, user *entity.User) (string, error) {
	code, err := utils.GenerateConfirmationCode(s.config.ConfirmationCode.Length)
	if err != nil {
		return "", err
	}

	hash, err := utils.HashSecret(code)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ConfirmationCode.ExpiryMinutes) * time.Minute)

	record := &entity.ConfirmationCode{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     user.ID,
		CodeHash:   hash,
		ExpiresAt:  expiresAt,
	}

	if err := s.repo.ConfirmationCode.Create(ctx, record); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is %s\nIt expires at %s.\n",
		user.Username, code, expiresAt.UTC().Format(time.RFC1123))
	if err := s.mail.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		return "", err
	}

	s.log.Info("Confirmation code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", expiresAt),
	)

	return code, nil
}

func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.Username, ErrNotFound)
	}

	now := s.now()
	codes, err := s.repo.ConfirmationCode.FindActiveByUserID(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	for _, code := range codes {
		if !utils.CheckSecretHash(req.ConfirmationCode, code.CodeHash) {
			continue
		}

		consumed, err := s.repo.ConfirmationCode.MarkAsUsed(ctx, code.ID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			// a concurrent exchange won the race
			break
		}

		if err := s.repo.User.TouchLastLogin(ctx, user.ID, now); err != nil {
			s.log.Warn("Failed to stamp last login", zap.Error(err), zap.String("user_id", user.ID.String()))
		}

		signed, err := s.tokens.Issue(user)
		if err != nil {
			return nil, err
		}

		s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
		return &response.TokenResponse{Token: signed}, nil
	}

	s.log.Warn("Confirmation code rejected", zap.String("username", req.Username))
	return nil, fieldError("confirmation_code", "Invalid or expired confirmation code")
}
