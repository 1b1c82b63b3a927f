package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.AuthorizerSvc
	TxManager  portsrepo.TransactionManager
	Clock      func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogUnexpected logs err unless it is one of the typed outcomes callers are expected to handle.
func (s *BaseService) LogUnexpected(ctx context.Context, err error, msg string, keyvals ...any) {
	for _, expected := range []error{
		apperrors.ErrNotFound, apperrors.ErrForbidden, apperrors.ErrUnauthenticated,
		apperrors.ErrInvalidTransition, apperrors.ErrValidation, apperrors.ErrConflict,
	} {
		if errors.Is(err, expected) {
			s.LogDebug(ctx, msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
			return
		}
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// Now returns the current UTC time from the injected clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// AuthorizeUser checks that userID holds one of required in scope.
// Without an authorizer every call is denied.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID string, required []domain.Role, scope domain.Scope) error {
	if s.Authorizer == nil {
		s.LogError(ctx, errors.New("no authorizer configured"), "Authorization denied",
			slog.String("user_id", userID))
		return apperrors.NewForbiddenError("authorization is not configured")
	}
	return s.Authorizer.Authorize(ctx, userID, required, scope)
}

// InTx runs fn in a store transaction.
func (s *BaseService) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.TxManager.RunInTx(ctx, fn)
}
