package services

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// ReviewRoundSvc manages review rounds.
type ReviewRoundSvc interface {
	OpenReviewRound(ctx context.Context, actorID, submissionID string) (*domain.ReviewRound, error)
	GetReviewRound(ctx context.Context, actorID, roundID string) (*domain.RoundDetail, error)
}

// ReviewAssignmentSvc drives the per-reviewer assignment state machine.
type ReviewAssignmentSvc interface {
	// AssignReviewer creates a Pending assignment and grants the reviewer role.
	AssignReviewer(ctx context.Context, actorID, roundID, reviewerID string, dueDate *time.Time) (*domain.ReviewAssignment, error)

	// The four reviewer actions below are restricted to the assigned reviewer.
	AcceptReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error)
	DeclineReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error)
	SubmitReview(ctx context.Context, actorID, assignmentID string, recommendation domain.Recommendation) (*domain.ReviewAssignment, error)
	WithdrawReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error)

	// CancelReview is the editor's override: Pending or Accepted to Declined.
	CancelReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error)
}

// ReviewSvcFacade combines rounds and assignments.
type ReviewSvcFacade interface {
	ReviewRoundSvc
	ReviewAssignmentSvc
}

// ReviewerNotifier delivers reviewer invitations.
type ReviewerNotifier interface {
	NotifyReviewerInvited(ctx context.Context, invitation domain.ReviewInvitation) error
}
