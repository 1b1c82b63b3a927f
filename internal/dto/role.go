package dto

import "github.com/SscSPs/editorial_workflow/internal/core/domain"

// RoleAssignmentRequest grants or revokes one role. For journal routes the scope
// comes from the path; for /roles/site it is always the whole site.
type RoleAssignmentRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required,rolename"`
}

// ToAssignment builds the flat fact. Role was already checked by the rolename validator.
func (r RoleAssignmentRequest) ToAssignment(scope domain.Scope) domain.RoleAssignment {
	role, _ := domain.ParseRoleName(r.Role)
	return domain.RoleAssignment{UserID: r.UserID, Scope: scope, Role: role}
}

// SyncRolesRequest limits a reconciliation run to one journal when JournalID is set.
type SyncRolesRequest struct {
	JournalID *string `json:"journalId"`
	DryRun    bool    `json:"dryRun"`
}

// RoleScopeQuery is the optional journal filter of GET /roles/consistency.
type RoleScopeQuery struct {
	JournalID string `form:"journalId"`
}

// Ref returns the filter as a nullable id.
func (q RoleScopeQuery) Ref() *string {
	if q.JournalID == "" {
		return nil
	}
	return &q.JournalID
}
