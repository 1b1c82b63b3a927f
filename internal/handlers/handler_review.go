package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/gin-gonic/gin"
)

// reviewHandler serves review rounds and reviewer assignments.
type reviewHandler struct {
	reviewService portssvc.ReviewSvcFacade
}

func newReviewHandler(rs portssvc.ReviewSvcFacade) *reviewHandler {
	return &reviewHandler{reviewService: rs}
}

// openReviewRound godoc
// @Summary Open the next review round of a submission
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/{submission_id}/review-rounds [post]
func (h *reviewHandler) openReviewRound(c *gin.Context) {
	round, err := h.reviewService.OpenReviewRound(c.Request.Context(), principalID(c), c.Param("submission_id"))
	if err != nil {
		respondWithError(c, err, "Open review round")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"round": round})
}

// getReviewRound godoc
// @Summary Get a review round with its assignments
// @Description Reviewers only see their own assignment.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param round_id path string true "Round ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /review-rounds/{round_id} [get]
func (h *reviewHandler) getReviewRound(c *gin.Context) {
	detail, err := h.reviewService.GetReviewRound(c.Request.Context(), principalID(c), c.Param("round_id"))
	if err != nil {
		respondWithError(c, err, "Get review round")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"round": detail})
}

// assignReviewer godoc
// @Summary Invite a reviewer into a round
// @Description Creates a pending assignment and grants the reviewer role in the journal.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param round_id path string true "Round ID"
// @Param assignment body dto.AssignReviewerRequest true "Reviewer"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Reviewer already assigned"
// @Router /review-rounds/{round_id}/assignments [post]
func (h *reviewHandler) assignReviewer(c *gin.Context) {
	var req dto.AssignReviewerRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.reviewService.AssignReviewer(c.Request.Context(), principalID(c), c.Param("round_id"), req.ReviewerID, req.Due())
	if err != nil {
		respondWithError(c, err, "Assign reviewer")
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"assignment": assignment})
}

type assignmentAction func(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error)

func (h *reviewHandler) runAssignmentAction(c *gin.Context, name string, action assignmentAction) {
	assignment, err := action(c.Request.Context(), principalID(c), c.Param("assignment_id"))
	if err != nil {
		respondWithError(c, err, name)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"assignment": assignment})
}

// acceptReview godoc
// @Summary Accept a review invitation
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{assignment_id}/accept [post]
func (h *reviewHandler) acceptReview(c *gin.Context) {
	h.runAssignmentAction(c, "Accept review", h.reviewService.AcceptReview)
}

// declineReview godoc
// @Summary Decline a review invitation
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{assignment_id}/decline [post]
func (h *reviewHandler) declineReview(c *gin.Context) {
	h.runAssignmentAction(c, "Decline review", h.reviewService.DeclineReview)
}

// withdrawReview godoc
// @Summary Withdraw from an accepted review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{assignment_id}/withdraw [post]
func (h *reviewHandler) withdrawReview(c *gin.Context) {
	h.runAssignmentAction(c, "Withdraw review", h.reviewService.WithdrawReview)
}

// cancelReview godoc
// @Summary Cancel a reviewer's assignment
// @Description Editorial override; moves a pending or accepted assignment to declined.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{assignment_id}/cancel [post]
func (h *reviewHandler) cancelReview(c *gin.Context) {
	h.runAssignmentAction(c, "Cancel review", h.reviewService.CancelReview)
}

// submitReview godoc
// @Summary Submit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Assignment ID"
// @Param review body dto.SubmitReviewRequest true "Recommendation"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /review-assignments/{assignment_id}/submit [post]
func (h *reviewHandler) submitReview(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	recommendation, err := domain.ParseRecommendation(req.Recommendation)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	h.runAssignmentAction(c, "Submit review", func(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error) {
		return h.reviewService.SubmitReview(ctx, actorID, assignmentID, recommendation)
	})
}
