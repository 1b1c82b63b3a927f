package services

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// RoleAdminSvc grants, revokes and lists role assignments.
type RoleAdminSvc interface {
	// GrantRole writes both role forms in one transaction. It reports whether the flat row was new.
	GrantRole(ctx context.Context, actorID string, assignment domain.RoleAssignment) (bool, error)

	// RevokeRole removes both role forms in one transaction. It reports whether the flat row existed.
	RevokeRole(ctx context.Context, actorID string, assignment domain.RoleAssignment) (bool, error)

	// ListRoleAssignments lists the flat rows of a journal. Managers and site admins only.
	ListRoleAssignments(ctx context.Context, actorID, journalID string) ([]domain.RoleAssignment, error)

	// ListMyRoles lists every flat row held by the caller.
	ListMyRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error)
}

// RoleReconcilerSvc aligns the normalized role form with the flat one.
type RoleReconcilerSvc interface {
	// SyncRoles is additive-only and idempotent. Normalized memberships without a flat
	// equivalent are reported as divergences and left in place.
	SyncRoles(ctx context.Context, actorID string, journalID *string, dryRun bool) (*domain.SyncReport, error)

	// CheckRoleConsistency reports drift in both directions without writing.
	CheckRoleConsistency(ctx context.Context, actorID string, journalID *string) (*domain.ConsistencyReport, error)
}

// RoleBootstrapSvc seeds site admins from operator tooling. It performs no authorization
// and must not be reachable over HTTP.
type RoleBootstrapSvc interface {
	BootstrapSiteAdmin(ctx context.Context, userID string) (bool, error)
}

// RoleSvcFacade combines role administration, reconciliation and bootstrap.
type RoleSvcFacade interface {
	RoleAdminSvc
	RoleReconcilerSvc
	RoleBootstrapSvc
}
