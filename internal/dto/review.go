package dto

import (
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// AssignReviewerRequest invites a reviewer into a round.
type AssignReviewerRequest struct {
	ReviewerID string  `json:"reviewerId" binding:"required"`
	DueDate    *string `json:"dueDate" binding:"omitempty,isodate"`
}

// Due parses DueDate. The isodate validator has already run.
func (r AssignReviewerRequest) Due() *time.Time {
	if r.DueDate == nil {
		return nil
	}
	t, err := domain.ParseDate(*r.DueDate)
	if err != nil {
		return nil
	}
	return &t
}

// SubmitReviewRequest completes an accepted review.
type SubmitReviewRequest struct {
	Recommendation string `json:"recommendation" binding:"required"`
}
