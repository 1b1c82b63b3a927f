package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

// roleHandler serves role administration and reconciliation.
type roleHandler struct {
	roleService portssvc.RoleSvcFacade
}

func newRoleHandler(rs portssvc.RoleSvcFacade) *roleHandler {
	return &roleHandler{roleService: rs}
}

// listJournalRoles godoc
// @Summary List role assignments of a journal
// @Description Managers of the journal and site admins only.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /journals/{journal_id}/roles [get]
func (h *roleHandler) listJournalRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoleAssignments(c.Request.Context(), principalID(c), c.Param("journal_id"))
	if err != nil {
		respondWithError(c, err, "List journal roles")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"roles": roles})
}

// grantJournalRole godoc
// @Summary Grant a journal role
// @Description Writes the flat row and the group membership together. Granting a held role is a no-op.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Param role body dto.RoleAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /journals/{journal_id}/roles [post]
func (h *roleHandler) grantJournalRole(c *gin.Context) {
	h.grant(c, domain.JournalScope(c.Param("journal_id")))
}

// revokeJournalRole godoc
// @Summary Revoke a journal role
// @Description Removes the flat row and the group membership together.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Param role body dto.RoleAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /journals/{journal_id}/roles [delete]
func (h *roleHandler) revokeJournalRole(c *gin.Context) {
	h.revoke(c, domain.JournalScope(c.Param("journal_id")))
}

// grantSiteRole godoc
// @Summary Grant a site-wide role
// @Description Site admins only.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role body dto.RoleAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /roles/site [post]
func (h *roleHandler) grantSiteRole(c *gin.Context) {
	h.grant(c, domain.SiteScope())
}

// revokeSiteRole godoc
// @Summary Revoke a site-wide role
// @Description Site admins only. An admin cannot revoke their own site admin role.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role body dto.RoleAssignmentRequest true "Assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /roles/site [delete]
func (h *roleHandler) revokeSiteRole(c *gin.Context) {
	h.revoke(c, domain.SiteScope())
}

func (h *roleHandler) grant(c *gin.Context, scope domain.Scope) {
	var req dto.RoleAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment := req.ToAssignment(scope)

	created, err := h.roleService.GrantRole(c.Request.Context(), principalID(c), assignment)
	if err != nil {
		respondWithError(c, err, "Grant role")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Role granted",
			slog.String("target_user_id", assignment.UserID),
			slog.String("scope", assignment.Scope.String()),
			slog.String("role", assignment.Role.String()))
	}
	respondOK(c, status, gin.H{"assignment": assignment, "created": created})
}

func (h *roleHandler) revoke(c *gin.Context, scope domain.Scope) {
	var req dto.RoleAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment := req.ToAssignment(scope)

	removed, err := h.roleService.RevokeRole(c.Request.Context(), principalID(c), assignment)
	if err != nil {
		respondWithError(c, err, "Revoke role")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"assignment": assignment, "removed": removed})
}

// syncRoles godoc
// @Summary Project flat role rows into role groups
// @Description Additive and idempotent. Site admins only. With dryRun nothing is written.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sync body dto.SyncRolesRequest false "Scope and dry run flag"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /roles/sync [post]
func (h *roleHandler) syncRoles(c *gin.Context) {
	var req dto.SyncRolesRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	report, err := h.roleService.SyncRoles(c.Request.Context(), principalID(c), req.JournalID, req.DryRun)
	if err != nil {
		respondWithError(c, err, "Sync roles")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"report": report})
}

// checkRoleConsistency godoc
// @Summary Report drift between the two role forms
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param journalId query string false "Limit the check to one journal"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /roles/consistency [get]
func (h *roleHandler) checkRoleConsistency(c *gin.Context) {
	var q dto.RoleScopeQuery
	if !bindQuery(c, &q) {
		return
	}

	report, err := h.roleService.CheckRoleConsistency(c.Request.Context(), principalID(c), q.Ref())
	if err != nil {
		respondWithError(c, err, "Check role consistency")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"report": report, "consistent": report.Consistent()})
}
