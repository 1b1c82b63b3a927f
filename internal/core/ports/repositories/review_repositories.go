package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// ReviewRoundRepository persists review rounds.
type ReviewRoundRepository interface {
	// SaveReviewRound returns apperrors.ErrConflict when the round number is taken.
	SaveReviewRound(ctx context.Context, round domain.ReviewRound) error
	FindReviewRoundByID(ctx context.Context, roundID string) (*domain.ReviewRound, error)

	// ListReviewRounds returns the rounds of a submission ordered by round number.
	ListReviewRounds(ctx context.Context, submissionID string) ([]domain.ReviewRound, error)

	// RecordRoundDecision sets the decision only if none is recorded yet.
	RecordRoundDecision(ctx context.Context, roundID string, decision domain.EditorialDecision, decidedAt time.Time) (bool, error)

	// ReviseRoundDecision replaces the decision only if it is still from.
	ReviseRoundDecision(ctx context.Context, roundID string, from, to domain.EditorialDecision, decidedAt time.Time) (bool, error)
}

// ReviewAssignmentRepository persists review assignments.
type ReviewAssignmentRepository interface {
	SaveReviewAssignment(ctx context.Context, assignment domain.ReviewAssignment) error
	FindReviewAssignmentByID(ctx context.Context, assignmentID string) (*domain.ReviewAssignment, error)
	ListAssignmentsByRound(ctx context.Context, roundID string) ([]domain.ReviewAssignment, error)

	// UpdateAssignmentStatus applies change only if the status is still one of change.From.
	UpdateAssignmentStatus(ctx context.Context, assignmentID string, change domain.AssignmentChange) (bool, error)
}

// ReviewRepositoryFacade combines rounds and assignments.
type ReviewRepositoryFacade interface {
	ReviewRoundRepository
	ReviewAssignmentRepository
}
