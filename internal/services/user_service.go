package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/auth"
	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
	"github.com/exam-portal/registration-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
	}
}

// GoogleLogin is the mocked OAuth flow: the verified email and display name
// stand in for the provider token exchange. Users are upserted by email and
// always receive the USER role on first login.
func (s *userService) GoogleLogin(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.User().GetByEmail(ctx, s.db, email)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		user = &models.User{
			ID:    uuid.New(),
			Name:  req.Name,
			Email: email,
			Role:  models.RoleUser,
		}
		if err := s.repo.User().Create(ctx, s.db, user); err != nil {
			// Concurrent first logins race on the email unique index; the
			// loser re-reads the winner's row.
			if repositories.IsDuplicateError(err) {
				user, err = s.repo.User().GetByEmail(ctx, s.db, email)
				if err != nil {
					return nil, fmt.Errorf("failed to re-read user after duplicate login: %w", err)
				}
			} else {
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
		} else {
			s.logger.Info("User created on first login", "user_id", user.ID, "email", email)
		}
	}

	token, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &UserResponse{User: user, ProfileComplete: user.IsProfileComplete()}, nil
}

func (s *userService) UpdateMobile(ctx context.Context, userID uuid.UUID, req *MobileUpdateRequest) (*UserResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateMobileUpdate(req.Mobile); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	normalized := validator.NormalizeMobile(req.Mobile)
	user.Mobile = &normalized

	if err := s.repo.User().Update(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User mobile updated", "user_id", userID)
	return &UserResponse{User: user, ProfileComplete: user.IsProfileComplete()}, nil
}
