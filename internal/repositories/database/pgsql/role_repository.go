package pgsql

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRoleRepository stores both role forms: flat user_roles rows and the normalized
// user_groups / user_user_groups pair.
type PgxRoleRepository struct {
	BaseRepository
}

func newPgxRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &PgxRoleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RoleRepositoryFacade = (*PgxRoleRepository)(nil)

const userRoleSelectQuery = `SELECT user_id, journal_id, role_name FROM user_roles `

func (r *PgxRoleRepository) listFlat(ctx context.Context, filter string, args ...any) ([]domain.RoleAssignment, error) {
	rows, err := collect[models.UserRole](ctx, r.DB(ctx), "role assignments", userRoleSelectQuery+filter, args...)
	if err != nil {
		return nil, err
	}
	assignments, err := mapping.ToDomainRoleAssignmentSlice(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable role assignment", err)
	}
	return assignments, nil
}

func (r *PgxRoleRepository) ListRolesForUser(ctx context.Context, userID string, scope domain.Scope) ([]domain.RoleAssignment, error) {
	return r.listFlat(ctx, "WHERE user_id = $1 AND (journal_id IS NULL OR journal_id = $2::text)", userID, scope.JournalRef())
}

func (r *PgxRoleRepository) ListUserRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	return r.listFlat(ctx, "WHERE user_id = $1 ORDER BY journal_id NULLS FIRST, role_name", userID)
}

func (r *PgxRoleRepository) ListFlatAssignments(ctx context.Context, journalID *string) ([]domain.RoleAssignment, error) {
	if journalID == nil {
		return r.listFlat(ctx, "ORDER BY journal_id NULLS FIRST, user_id, role_name")
	}
	return r.listFlat(ctx, "WHERE journal_id = $1 ORDER BY user_id, role_name", *journalID)
}

// SaveFlatAssignment is a no-op when the fact is already stored under any of its labels.
func (r *PgxRoleRepository) SaveFlatAssignment(ctx context.Context, assignment domain.RoleAssignment) (bool, error) {
	m := mapping.ToModelUserRole(assignment)
	query := `
		INSERT INTO user_roles (user_id, journal_id, role_name)
		SELECT $1, $2::text, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM user_roles
			WHERE user_id = $1 AND journal_id IS NOT DISTINCT FROM $2::text AND translate(lower(trim(role_name)), '- ', '__') = ANY($4::text[])
		)
		ON CONFLICT DO NOTHING;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, m.UserID, m.JournalID, m.RoleName, assignment.Role.Labels())
	if err != nil {
		return false, writeError(err, "role assignment already exists", "save role assignment")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxRoleRepository) DeleteFlatAssignment(ctx context.Context, assignment domain.RoleAssignment) (bool, error) {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1 AND journal_id IS NOT DISTINCT FROM $2::text AND translate(lower(trim(role_name)), '- ', '__') = ANY($3::text[]);
	`
	tag, err := r.DB(ctx).Exec(ctx, query, assignment.UserID, assignment.Scope.JournalRef(), assignment.Role.Labels())
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to delete role assignment", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxRoleRepository) EnsureRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (domain.RoleGroup, bool, error) {
	group := domain.RoleGroup{GroupID: uuid.NewString(), Scope: scope, Class: class}
	query := `
		INSERT INTO user_groups (group_id, journal_id, role_id)
		VALUES ($1, $2::text, $3)
		ON CONFLICT DO NOTHING;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, group.GroupID, scope.JournalRef(), int(class))
	if err != nil {
		return domain.RoleGroup{}, false, writeError(err, "role group already exists", "create role group")
	}
	if tag.RowsAffected() == 1 {
		return group, true, nil
	}
	existing, err := r.FindRoleGroup(ctx, scope, class)
	if err != nil {
		return domain.RoleGroup{}, false, err
	}
	return *existing, false, nil
}

func (r *PgxRoleRepository) FindRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (*domain.RoleGroup, error) {
	query := `
		SELECT group_id, journal_id, role_id FROM user_groups
		WHERE journal_id IS NOT DISTINCT FROM $1::text AND role_id = $2
	`
	m, err := collectOne[models.UserGroup](ctx, r.DB(ctx), "role group", scope.String(), query, scope.JournalRef(), int(class))
	if err != nil {
		return nil, err
	}
	g := mapping.ToDomainRoleGroup(*m)
	return &g, nil
}

func (r *PgxRoleRepository) AddMembership(ctx context.Context, userID, groupID string) (bool, error) {
	query := `INSERT INTO user_user_groups (user_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	tag, err := r.DB(ctx).Exec(ctx, query, userID, groupID)
	if err != nil {
		return false, writeError(err, "membership already exists", "add role group membership")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxRoleRepository) RemoveMembership(ctx context.Context, userID, groupID string) (bool, error) {
	query := `DELETE FROM user_user_groups WHERE user_id = $1 AND group_id = $2;`
	tag, err := r.DB(ctx).Exec(ctx, query, userID, groupID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to remove role group membership", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxRoleRepository) ListMemberships(ctx context.Context, journalID *string) ([]domain.GroupMembership, error) {
	query := `
		SELECT uug.user_id, uug.group_id, ug.journal_id, ug.role_id
		FROM user_user_groups uug
		JOIN user_groups ug ON ug.group_id = uug.group_id
	`
	var (
		rows []models.UserGroupMembership
		err  error
	)
	if journalID == nil {
		rows, err = collect[models.UserGroupMembership](ctx, r.DB(ctx), "role group memberships",
			query+"ORDER BY ug.journal_id NULLS FIRST, uug.user_id, ug.role_id")
	} else {
		rows, err = collect[models.UserGroupMembership](ctx, r.DB(ctx), "role group memberships",
			query+"WHERE ug.journal_id = $1 ORDER BY uug.user_id, ug.role_id", *journalID)
	}
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainGroupMembershipSlice(rows), nil
}
