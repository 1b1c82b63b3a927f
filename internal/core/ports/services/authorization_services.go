package services

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// AuthorizerSvc answers whether a principal may act in a scope.
// It reads only the flat role form and never writes.
type AuthorizerSvc interface {
	// Authorize returns nil iff the principal is a site admin or holds one of required in scope.
	// An empty principal yields apperrors.ErrUnauthenticated, a missing role apperrors.ErrForbidden.
	Authorize(ctx context.Context, principalID string, required []domain.Role, scope domain.Scope) error

	// IsAuthorized is the boolean form of Authorize, for read-side filtering.
	IsAuthorized(ctx context.Context, principalID string, required []domain.Role, scope domain.Scope) (bool, error)
}
