package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/gin-gonic/gin"
)

// issueHandler serves journal issues.
type issueHandler struct {
	issueService portssvc.IssueSvcFacade
}

func newIssueHandler(is portssvc.IssueSvcFacade) *issueHandler {
	return &issueHandler{issueService: is}
}

// createIssue godoc
// @Summary Create an issue
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Param issue body dto.CreateIssueRequest true "Issue"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Issue already exists"
// @Router /journals/{journal_id}/issues [post]
func (h *issueHandler) createIssue(c *gin.Context) {
	var req dto.CreateIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), principalID(c), c.Param("journal_id"), req.Volume, req.Number, req.Year, req.Title)
	if err != nil {
		respondWithError(c, err, "Create issue")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"issue": issue})
}

// listIssues godoc
// @Summary List the issues of a journal
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Success 200 {object} map[string]interface{}
// @Router /journals/{journal_id}/issues [get]
func (h *issueHandler) listIssues(c *gin.Context) {
	issues, err := h.issueService.ListIssues(c.Request.Context(), principalID(c), c.Param("journal_id"))
	if err != nil {
		respondWithError(c, err, "List issues")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"issues": issues})
}

// publishIssue godoc
// @Summary Publish an issue
// @Description Scheduled versions placed in the issue are published with it.
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issue_id path string true "Issue ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /issues/{issue_id}/publish [post]
func (h *issueHandler) publishIssue(c *gin.Context) {
	issue, err := h.issueService.PublishIssue(c.Request.Context(), principalID(c), c.Param("issue_id"))
	if err != nil {
		respondWithError(c, err, "Publish issue")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"issue": issue})
}

// unpublishIssue godoc
// @Summary Unpublish an issue
// @Description Published versions in the issue go back to scheduled.
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param issue_id path string true "Issue ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /issues/{issue_id}/unpublish [post]
func (h *issueHandler) unpublishIssue(c *gin.Context) {
	issue, err := h.issueService.UnpublishIssue(c.Request.Context(), principalID(c), c.Param("issue_id"))
	if err != nil {
		respondWithError(c, err, "Unpublish issue")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"issue": issue})
}
