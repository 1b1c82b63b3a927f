package services

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by login name.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser hashes password and stores a new user.
	CreateUser(ctx context.Context, username, name, email, password, creatorID string) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser checks the credentials; any mismatch yields apperrors.ErrUnauthenticated.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// IssueAccessToken returns a signed JWT for the user and its expiry.
	IssueAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
