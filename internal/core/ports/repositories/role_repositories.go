package repositories

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// RoleAssignmentReader reads the flat role form, the canonical source for live checks.
type RoleAssignmentReader interface {
	// ListRolesForUser returns the user's site-scope rows plus its rows in scope.
	ListRolesForUser(ctx context.Context, userID string, scope domain.Scope) ([]domain.RoleAssignment, error)

	// ListUserRoles returns every flat row held by the user.
	ListUserRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error)

	// ListFlatAssignments returns all flat rows, or only those of one journal when journalID is set.
	// Site-scope rows are included only when journalID is nil.
	ListFlatAssignments(ctx context.Context, journalID *string) ([]domain.RoleAssignment, error)
}

// RoleAssignmentWriter writes the flat role form. Both calls are idempotent.
type RoleAssignmentWriter interface {
	SaveFlatAssignment(ctx context.Context, assignment domain.RoleAssignment) (created bool, err error)
	DeleteFlatAssignment(ctx context.Context, assignment domain.RoleAssignment) (deleted bool, err error)
}

// RoleGroupManager maintains the normalized form: role groups and their memberships.
type RoleGroupManager interface {
	// EnsureRoleGroup returns the group for (scope, class), creating it when absent.
	EnsureRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (group domain.RoleGroup, created bool, err error)

	// FindRoleGroup returns apperrors.ErrNotFound when no group exists for (scope, class).
	FindRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (*domain.RoleGroup, error)

	AddMembership(ctx context.Context, userID, groupID string) (created bool, err error)
	RemoveMembership(ctx context.Context, userID, groupID string) (deleted bool, err error)

	// ListMemberships returns memberships joined with their group, filtered like ListFlatAssignments.
	ListMemberships(ctx context.Context, journalID *string) ([]domain.GroupMembership, error)
}

// RoleRepositoryFacade combines both role representations.
type RoleRepositoryFacade interface {
	RoleAssignmentReader
	RoleAssignmentWriter
	RoleGroupManager
}
