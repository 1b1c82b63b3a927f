package mapping

import (
	"fmt"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
)

// ToModelUserRole converts a flat assignment to its row, writing the canonical role label.
func ToModelUserRole(d domain.RoleAssignment) models.UserRole {
	return models.UserRole{
		UserID:    d.UserID,
		JournalID: d.Scope.JournalRef(),
		RoleName:  d.Role.String(),
	}
}

// ToDomainRoleAssignment converts a flat row, failing on role labels outside the known set.
func ToDomainRoleAssignment(m models.UserRole) (domain.RoleAssignment, error) {
	role, err := domain.ParseRoleName(m.RoleName)
	if err != nil {
		return domain.RoleAssignment{}, fmt.Errorf("user_roles row for user %s: %w", m.UserID, err)
	}
	return domain.RoleAssignment{
		UserID: m.UserID,
		Scope:  domain.ScopeFromRef(m.JournalID),
		Role:   role,
	}, nil
}

// ToDomainRoleAssignmentSlice converts flat rows, stopping at the first unknown label.
func ToDomainRoleAssignmentSlice(ms []models.UserRole) ([]domain.RoleAssignment, error) {
	ds := make([]domain.RoleAssignment, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainRoleAssignment(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

// ToDomainRoleGroup converts a user_groups row. Unknown role classes are kept as is.
func ToDomainRoleGroup(m models.UserGroup) domain.RoleGroup {
	return domain.RoleGroup{
		GroupID: m.GroupID,
		Scope:   domain.ScopeFromRef(m.JournalID),
		Class:   domain.RoleClass(m.RoleID),
	}
}

// ToDomainGroupMembership converts a joined membership row.
func ToDomainGroupMembership(m models.UserGroupMembership) domain.GroupMembership {
	return domain.GroupMembership{
		UserID:  m.UserID,
		GroupID: m.GroupID,
		Scope:   domain.ScopeFromRef(m.JournalID),
		Class:   domain.RoleClass(m.RoleID),
	}
}

// ToDomainGroupMembershipSlice converts joined membership rows.
func ToDomainGroupMembershipSlice(ms []models.UserGroupMembership) []domain.GroupMembership {
	ds := make([]domain.GroupMembership, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGroupMembership(m)
	}
	return ds
}
