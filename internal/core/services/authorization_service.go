package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
)

type authorizationService struct {
	BaseService
	roleReader portsrepo.RoleAssignmentReader
}

// NewAuthorizationService creates the authorizer. It reads only the flat role form.
func NewAuthorizationService(roleReader portsrepo.RoleAssignmentReader) portssvc.AuthorizerSvc {
	return &authorizationService{roleReader: roleReader}
}

var _ portssvc.AuthorizerSvc = (*authorizationService)(nil)

func (s *authorizationService) Authorize(ctx context.Context, principalID string, required []domain.Role, scope domain.Scope) error {
	ok, err := s.IsAuthorized(ctx, principalID, required, scope)
	if err != nil {
		return err
	}
	if !ok {
		s.LogDebug(ctx, "Authorization denied",
			slog.String("principal_id", principalID),
			slog.String("scope", scope.String()),
			slog.String("required", roleList(required)))
		return apperrors.NewForbiddenError(fmt.Sprintf("requires one of [%s] in %s", roleList(required), scope))
	}
	return nil
}

func (s *authorizationService) IsAuthorized(ctx context.Context, principalID string, required []domain.Role, scope domain.Scope) (bool, error) {
	if principalID == "" {
		return false, apperrors.NewUnauthenticatedError("authentication required")
	}

	assignments, err := s.roleReader.ListRolesForUser(ctx, principalID, scope)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load role assignments",
				slog.String("principal_id", principalID),
				slog.String("scope", scope.String()))
			return false, err
		}
		assignments = nil
	}

	return domain.HoldsAny(assignments, required, scope), nil
}

func roleList(roles []domain.Role) string {
	names := make([]string, 0, len(roles)+1)
	names = append(names, domain.RoleSiteAdmin.String())
	for _, r := range roles {
		names = append(names, r.String())
	}
	return strings.Join(names, ", ")
}
