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

// submissionHandler handles HTTP requests that move submissions through the stages.
type submissionHandler struct {
	submissionService portssvc.SubmissionSvcFacade
}

func newSubmissionHandler(ss portssvc.SubmissionSvcFacade) *submissionHandler {
	return &submissionHandler{submissionService: ss}
}

// createSubmission godoc
// @Summary Create a submission
// @Description Any authenticated user may submit. The caller becomes the author of the submission.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Param submission body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /journals/{journal_id}/submissions [post]
func (h *submissionHandler) createSubmission(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.submissionService.CreateSubmission(c.Request.Context(), principalID(c), c.Param("journal_id"), req.Title)
	if err != nil {
		respondWithError(c, err, "Create submission")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Submission created", slog.String("submission_id", sub.SubmissionID))
	respondOK(c, http.StatusCreated, gin.H{"submission": sub})
}

// listSubmissions godoc
// @Summary List the submissions of a journal
// @Description Newest first. Editorial roles of the journal only.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /journals/{journal_id}/submissions [get]
func (h *submissionHandler) listSubmissions(c *gin.Context) {
	var params dto.ListParams
	if !bindQuery(c, &params) {
		return
	}

	subs, next, err := h.submissionService.ListSubmissions(c.Request.Context(), principalID(c), c.Param("journal_id"), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "List submissions")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submissions": subs, "nextToken": next})
}

// getSubmission godoc
// @Summary Get a submission
// @Description Visible to the submitter and to editorial roles of the journal.
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{submission_id} [get]
func (h *submissionHandler) getSubmission(c *gin.Context) {
	sub, err := h.submissionService.GetSubmission(c.Request.Context(), principalID(c), c.Param("submission_id"))
	if err != nil {
		respondWithError(c, err, "Get submission")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submission": sub})
}

// getSubmissionOverview godoc
// @Summary Get a submission with its review rounds and versions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{submission_id}/overview [get]
func (h *submissionHandler) getSubmissionOverview(c *gin.Context) {
	overview, err := h.submissionService.GetSubmissionOverview(c.Request.Context(), principalID(c), c.Param("submission_id"))
	if err != nil {
		respondWithError(c, err, "Get submission overview")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"overview": overview})
}

// listActivity godoc
// @Summary Page through the activity log of a submission
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /submissions/{submission_id}/activity [get]
func (h *submissionHandler) listActivity(c *gin.Context) {
	var params dto.ListParams
	if !bindQuery(c, &params) {
		return
	}

	entries, next, err := h.submissionService.ListActivity(c.Request.Context(), principalID(c), c.Param("submission_id"), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "List activity")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"activity": entries, "nextToken": next})
}

// advanceStage godoc
// @Summary Move a submission to the next stage
// @Description Stages cannot be skipped. Leaving review requires a closed round with an accept decision.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param stage body dto.AdvanceStageRequest true "Target stage"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid transition or concurrent update"
// @Router /submissions/{submission_id}/stage [post]
func (h *submissionHandler) advanceStage(c *gin.Context) {
	var req dto.AdvanceStageRequest
	if !bindJSON(c, &req) {
		return
	}
	target, _ := domain.ParseStage(req.Stage)

	sub, err := h.submissionService.AdvanceStage(c.Request.Context(), principalID(c), c.Param("submission_id"), target)
	if err != nil {
		respondWithError(c, err, "Advance stage")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submission": sub})
}

// returnToReview godoc
// @Summary Send a copyediting submission back to review
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/return-to-review [post]
func (h *submissionHandler) returnToReview(c *gin.Context) {
	sub, err := h.submissionService.ReturnToReview(c.Request.Context(), principalID(c), c.Param("submission_id"))
	if err != nil {
		respondWithError(c, err, "Return to review")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submission": sub})
}

// recordDecision godoc
// @Summary Record an editorial decision on the latest review round
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/decision [post]
func (h *submissionHandler) recordDecision(c *gin.Context) {
	var req dto.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	decision, _ := domain.ParseEditorialDecision(req.Decision)

	round, err := h.submissionService.RecordDecision(c.Request.Context(), principalID(c), c.Param("submission_id"), decision)
	if err != nil {
		respondWithError(c, err, "Record decision")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"round": round})
}

// declineSubmission godoc
// @Summary Decline a submission
// @Description Declined submissions accept no further transitions.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param reason body dto.ReasonRequest false "Reason"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/decline [post]
func (h *submissionHandler) declineSubmission(c *gin.Context) {
	var req dto.ReasonRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	sub, err := h.submissionService.DeclineSubmission(c.Request.Context(), principalID(c), c.Param("submission_id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Decline submission")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submission": sub})
}

// withdrawSubmission godoc
// @Summary Withdraw a submission
// @Description The submitter or an editorial role may withdraw.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Param reason body dto.ReasonRequest false "Reason"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/withdraw [post]
func (h *submissionHandler) withdrawSubmission(c *gin.Context) {
	var req dto.ReasonRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	sub, err := h.submissionService.WithdrawSubmission(c.Request.Context(), principalID(c), c.Param("submission_id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Withdraw submission")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"submission": sub})
}
