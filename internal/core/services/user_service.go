package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/utils"
	"github.com/google/uuid"
)

// TokenSettings configures access tokens issued at login.
type TokenSettings struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tokens   TokenSettings
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, tokens TokenSettings) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, tokens: tokens}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find user by username", slog.String("username", username))
		return nil, err
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, username, name, email, password, creatorID string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationFailedError("username is required")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return nil, apperrors.NewValidationFailedError(err.Error())
		}
		return nil, err
	}

	userID := uuid.NewString()
	if creatorID == "" {
		creatorID = userID
	}
	user := domain.User{
		UserID:       userID,
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AuditFields:  domain.NewAuditFields(creatorID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogUnexpected(ctx, err, "Failed to save user", slog.String("username", username))
		return nil, err
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError("invalid username or password")
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.NewUnauthenticatedError("invalid username or password")
	}
	return user, nil
}

func (s *userService) IssueAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.tokens.Expiry)
	token, err := utils.GenerateJWT(user.UserID, s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
