package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
)

// roleProjection writes a role fact in both representations, flat form first.
// Callers run it inside a transaction.
type roleProjection struct {
	repo portsrepo.RoleRepositoryFacade
}

func (p roleProjection) grant(ctx context.Context, a domain.RoleAssignment) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, apperrors.NewValidationFailedError(err.Error())
	}
	created, err := p.repo.SaveFlatAssignment(ctx, a)
	if err != nil {
		return false, fmt.Errorf("saving flat role %s: %w", a.Key(), err)
	}
	group, _, err := p.repo.EnsureRoleGroup(ctx, a.Scope, a.Role.Class())
	if err != nil {
		return false, fmt.Errorf("ensuring role group for %s: %w", a.Key(), err)
	}
	if _, err := p.repo.AddMembership(ctx, a.UserID, group.GroupID); err != nil {
		return false, fmt.Errorf("adding membership for %s: %w", a.Key(), err)
	}
	return created, nil
}

func (p roleProjection) revoke(ctx context.Context, a domain.RoleAssignment) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, apperrors.NewValidationFailedError(err.Error())
	}
	deleted, err := p.repo.DeleteFlatAssignment(ctx, a)
	if err != nil {
		return false, fmt.Errorf("deleting flat role %s: %w", a.Key(), err)
	}
	group, err := p.repo.FindRoleGroup(ctx, a.Scope, a.Role.Class())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return deleted, nil
		}
		return false, fmt.Errorf("finding role group for %s: %w", a.Key(), err)
	}
	if _, err := p.repo.RemoveMembership(ctx, a.UserID, group.GroupID); err != nil {
		return false, fmt.Errorf("removing membership for %s: %w", a.Key(), err)
	}
	return deleted, nil
}
