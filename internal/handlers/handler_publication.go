package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

// publicationHandler serves submission versions and their publication.
type publicationHandler struct {
	publicationService portssvc.PublicationSvcFacade
}

func newPublicationHandler(ps portssvc.PublicationSvcFacade) *publicationHandler {
	return &publicationHandler{publicationService: ps}
}

// listVersions godoc
// @Summary List the versions of a submission
// @Tags publication
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{submission_id}/versions [get]
func (h *publicationHandler) listVersions(c *gin.Context) {
	versions, err := h.publicationService.ListVersions(c.Request.Context(), principalID(c), c.Param("submission_id"))
	if err != nil {
		respondWithError(c, err, "List versions")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"versions": versions})
}

// createVersion godoc
// @Summary Create a new version
// @Description Numbers the version one above the highest existing number. Metadata of the latest version is inherited.
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param version body dto.CreateVersionRequest false "Metadata overrides"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/versions [post]
func (h *publicationHandler) createVersion(c *gin.Context) {
	var req dto.CreateVersionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	version, err := h.publicationService.CreateVersion(c.Request.Context(), principalID(c), c.Param("submission_id"), req.Metadata)
	if err != nil {
		respondWithError(c, err, "Create version")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Version created",
		slog.String("version_id", version.VersionID), slog.Int("version", version.Number))
	respondOK(c, http.StatusCreated, gin.H{"version": version})
}

// promoteVersion godoc
// @Summary Make a version the submission's current version
// @Tags publication
// @Produce json
// @Security BearerAuth
// @Param version_id path string true "Version ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /versions/{version_id}/promote [post]
func (h *publicationHandler) promoteVersion(c *gin.Context) {
	version, err := h.publicationService.PromoteVersion(c.Request.Context(), principalID(c), c.Param("version_id"))
	if err != nil {
		respondWithError(c, err, "Promote version")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"version": version})
}

// publishVersion godoc
// @Summary Publish or schedule a version
// @Description publishDate is required. With publishNow the version is published on that date, otherwise it is scheduled for it.
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param version_id path string true "Version ID"
// @Param publish body dto.PublishVersionRequest true "Publication date"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /versions/{version_id}/publish [post]
func (h *publicationHandler) publishVersion(c *gin.Context) {
	var req dto.PublishVersionRequest
	if !bindJSON(c, &req) {
		return
	}

	version, err := h.publicationService.PublishVersion(c.Request.Context(), principalID(c), c.Param("version_id"), req.PublishDate, req.PublishNow)
	if err != nil {
		respondWithError(c, err, "Publish version")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"version": version})
}

// unpublishVersions godoc
// @Summary Unpublish one or all versions of a submission
// @Description Without versionId every scheduled or published version goes back to queued.
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param unpublish body dto.UnpublishRequest false "Single version"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/unpublish [post]
func (h *publicationHandler) unpublishVersions(c *gin.Context) {
	var req dto.UnpublishRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	versions, err := h.publicationService.UnpublishVersions(c.Request.Context(), principalID(c), c.Param("submission_id"), req.VersionID)
	if err != nil {
		respondWithError(c, err, "Unpublish versions")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"versions": versions})
}

// assignIssue godoc
// @Summary Place a version in an issue
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param version_id path string true "Version ID"
// @Param placement body dto.AssignIssueRequest true "Issue placement"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /versions/{version_id}/issue [patch]
func (h *publicationHandler) assignIssue(c *gin.Context) {
	var req dto.AssignIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	version, err := h.publicationService.AssignIssue(c.Request.Context(), principalID(c), c.Param("version_id"), req.ToPlacement())
	if err != nil {
		respondWithError(c, err, "Assign issue")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"version": version})
}
