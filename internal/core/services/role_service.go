package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
)

// roleService administers role assignments and reconciles the two role forms.
type roleService struct {
	BaseService
	roleRepo   portsrepo.RoleRepositoryFacade
	projection roleProjection
}

// NewRoleService creates a new role service with the provided dependencies
func NewRoleService(roleRepo portsrepo.RoleRepositoryFacade, txManager portsrepo.TransactionManager, authorizer portssvc.AuthorizerSvc) portssvc.RoleSvcFacade {
	return &roleService{
		BaseService: BaseService{Authorizer: authorizer, TxManager: txManager},
		roleRepo:    roleRepo,
		projection:  roleProjection{repo: roleRepo},
	}
}

var _ portssvc.RoleSvcFacade = (*roleService)(nil)

// authorizeRoleAdmin: site-scope roles need a site admin, journal roles a manager of that journal.
func (s *roleService) authorizeRoleAdmin(ctx context.Context, actorID string, scope domain.Scope) error {
	if scope.IsSite() {
		return s.AuthorizeUser(ctx, actorID, nil, domain.SiteScope())
	}
	return s.AuthorizeUser(ctx, actorID, domain.RoleAdminRoles, scope)
}

func (s *roleService) GrantRole(ctx context.Context, actorID string, a domain.RoleAssignment) (bool, error) {
	if err := s.authorizeRoleAdmin(ctx, actorID, a.Scope); err != nil {
		return false, err
	}
	if err := a.Validate(); err != nil {
		return false, apperrors.NewValidationFailedError(err.Error())
	}

	var created bool
	err := s.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.projection.grant(ctx, a)
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to grant role", slog.String("assignment", a.Key()))
		return false, err
	}

	s.LogInfo(ctx, "Role granted",
		slog.String("actor_id", actorID),
		slog.String("assignment", a.Key()),
		slog.Bool("created", created))
	return created, nil
}

// BootstrapSiteAdmin grants site_admin in both forms without checking the caller.
func (s *roleService) BootstrapSiteAdmin(ctx context.Context, userID string) (bool, error) {
	a := domain.RoleAssignment{UserID: userID, Scope: domain.SiteScope(), Role: domain.RoleSiteAdmin}

	var created bool
	err := s.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.projection.grant(ctx, a)
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to bootstrap site admin", slog.String("user_id", userID))
		return false, err
	}

	s.LogInfo(ctx, "Site admin bootstrapped", slog.String("user_id", userID), slog.Bool("created", created))
	return created, nil
}

func (s *roleService) RevokeRole(ctx context.Context, actorID string, a domain.RoleAssignment) (bool, error) {
	if err := s.authorizeRoleAdmin(ctx, actorID, a.Scope); err != nil {
		return false, err
	}
	if err := a.Validate(); err != nil {
		return false, apperrors.NewValidationFailedError(err.Error())
	}
	if a.Role == domain.RoleSiteAdmin && a.UserID == actorID {
		return false, apperrors.NewValidationFailedError("site admins cannot revoke their own site_admin role")
	}

	var deleted bool
	err := s.InTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.projection.revoke(ctx, a)
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to revoke role", slog.String("assignment", a.Key()))
		return false, err
	}

	s.LogInfo(ctx, "Role revoked",
		slog.String("actor_id", actorID),
		slog.String("assignment", a.Key()),
		slog.Bool("deleted", deleted))
	return deleted, nil
}

func (s *roleService) ListRoleAssignments(ctx context.Context, actorID, journalID string) ([]domain.RoleAssignment, error) {
	if err := s.AuthorizeUser(ctx, actorID, domain.RoleAdminRoles, domain.JournalScope(journalID)); err != nil {
		return nil, err
	}
	assignments, err := s.roleRepo.ListFlatAssignments(ctx, &journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list role assignments", slog.String("journal_id", journalID))
		return nil, err
	}
	if assignments == nil {
		return []domain.RoleAssignment{}, nil
	}
	return assignments, nil
}

func (s *roleService) ListMyRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthenticatedError("authentication required")
	}
	assignments, err := s.roleRepo.ListUserRoles(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list user roles", slog.String("user_id", userID))
		return nil, err
	}
	if assignments == nil {
		return []domain.RoleAssignment{}, nil
	}
	return assignments, nil
}

// loadBothForms reads the flat rows and the normalized memberships for the same filter.
func (s *roleService) loadBothForms(ctx context.Context, journalID *string) ([]domain.RoleAssignment, []domain.RoleAssignment, []domain.GroupMembership, error) {
	flat, err := s.roleRepo.ListFlatAssignments(ctx, journalID)
	if err != nil {
		return nil, nil, nil, err
	}
	memberships, err := s.roleRepo.ListMemberships(ctx, journalID)
	if err != nil {
		return nil, nil, nil, err
	}

	normalized := make([]domain.RoleAssignment, 0, len(memberships))
	var unmapped []domain.GroupMembership
	for _, m := range memberships {
		a, err := m.Assignment()
		if err != nil {
			unmapped = append(unmapped, m)
			continue
		}
		normalized = append(normalized, a)
	}
	return flat, normalized, unmapped, nil
}

func (s *roleService) SyncRoles(ctx context.Context, actorID string, journalID *string, dryRun bool) (*domain.SyncReport, error) {
	if err := s.AuthorizeUser(ctx, actorID, nil, domain.SiteScope()); err != nil {
		return nil, err
	}

	report := &domain.SyncReport{DryRun: dryRun}
	if journalID != nil {
		report.JournalID = *journalID
	}

	run := func(ctx context.Context) error {
		flat, normalized, unmapped, err := s.loadBothForms(ctx, journalID)
		if err != nil {
			return err
		}
		report.FlatAssignments = len(flat)
		report.Unmapped = unmapped

		present := make(map[string]struct{}, len(normalized))
		for _, a := range normalized {
			present[a.Key()] = struct{}{}
		}
		plannedGroups := map[string]struct{}{}

		for _, a := range flat {
			if err := a.Validate(); err != nil {
				s.GetLogger(ctx).Warn("Skipping malformed flat role row",
					slog.String("assignment", a.Key()), slog.String("reason", err.Error()))
				continue
			}
			if _, ok := present[a.Key()]; ok {
				report.AlreadyPresent++
				continue
			}
			present[a.Key()] = struct{}{}

			if dryRun {
				groupKey := a.Scope.String() + "|" + a.Role.String()
				if _, ok := plannedGroups[groupKey]; !ok {
					plannedGroups[groupKey] = struct{}{}
					if _, err := s.roleRepo.FindRoleGroup(ctx, a.Scope, a.Role.Class()); err != nil {
						if !errors.Is(err, apperrors.ErrNotFound) {
							return err
						}
						report.GroupsCreated++
					}
				}
				report.MembershipsCreated++
				continue
			}

			group, created, err := s.roleRepo.EnsureRoleGroup(ctx, a.Scope, a.Role.Class())
			if err != nil {
				return err
			}
			if created {
				report.GroupsCreated++
			}
			added, err := s.roleRepo.AddMembership(ctx, a.UserID, group.GroupID)
			if err != nil {
				return err
			}
			if added {
				report.MembershipsCreated++
			} else {
				report.AlreadyPresent++
			}
		}

		report.Divergences = domain.DiffAssignments(normalized, flat)
		return nil
	}

	var err error
	if dryRun {
		err = run(ctx)
	} else {
		err = s.InTx(ctx, run)
	}
	if err != nil {
		s.LogError(ctx, err, "Role sync failed", slog.Bool("dry_run", dryRun))
		return nil, err
	}

	if len(report.Divergences) > 0 || len(report.Unmapped) > 0 {
		s.GetLogger(ctx).Warn("Normalized role memberships without a flat equivalent were left in place",
			slog.Int("divergences", len(report.Divergences)),
			slog.Int("unmapped", len(report.Unmapped)))
	}
	s.LogInfo(ctx, "Role sync finished",
		slog.Bool("dry_run", dryRun),
		slog.Int("flat", report.FlatAssignments),
		slog.Int("groups_created", report.GroupsCreated),
		slog.Int("memberships_created", report.MembershipsCreated),
		slog.Int("already_present", report.AlreadyPresent))
	return report, nil
}

func (s *roleService) CheckRoleConsistency(ctx context.Context, actorID string, journalID *string) (*domain.ConsistencyReport, error) {
	if err := s.AuthorizeUser(ctx, actorID, nil, domain.SiteScope()); err != nil {
		return nil, err
	}

	flat, normalized, unmapped, err := s.loadBothForms(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load role representations")
		return nil, err
	}

	report := &domain.ConsistencyReport{
		MissingNormalized: domain.DiffAssignments(flat, normalized),
		MissingFlat:       domain.DiffAssignments(normalized, flat),
		Unmapped:          unmapped,
	}
	if journalID != nil {
		report.JournalID = *journalID
	}
	return report, nil
}
