package services

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// SubmissionReaderSvc defines read operations on submissions.
type SubmissionReaderSvc interface {
	// GetSubmission is visible to the submitter and to editorial roles of the journal.
	GetSubmission(ctx context.Context, actorID, submissionID string) (*domain.Submission, error)

	// GetSubmissionOverview loads the submission with its rounds and versions.
	GetSubmissionOverview(ctx context.Context, actorID, submissionID string) (*domain.SubmissionOverview, error)

	// ListSubmissions lists a journal's submissions for its editorial roles.
	ListSubmissions(ctx context.Context, actorID, journalID string, limit int, nextToken *string) ([]domain.Submission, *string, error)

	// ListActivity pages through a submission's activity log.
	ListActivity(ctx context.Context, actorID, submissionID string, limit int, nextToken *string) ([]domain.ActivityLogEntry, *string, error)
}

// SubmissionWorkflowSvc moves submissions through the stage machine.
type SubmissionWorkflowSvc interface {
	// CreateSubmission registers a new submission and grants the caller the author role.
	CreateSubmission(ctx context.Context, actorID, journalID, title string) (*domain.Submission, error)

	// AdvanceStage moves the submission forward by exactly one stage.
	AdvanceStage(ctx context.Context, actorID, submissionID string, target domain.Stage) (*domain.Submission, error)

	// ReturnToReview sends a copyediting submission back to review.
	ReturnToReview(ctx context.Context, actorID, submissionID string) (*domain.Submission, error)

	// RecordDecision records an editorial decision on the latest closed review round.
	RecordDecision(ctx context.Context, actorID, submissionID string, decision domain.EditorialDecision) (*domain.ReviewRound, error)

	DeclineSubmission(ctx context.Context, actorID, submissionID, reason string) (*domain.Submission, error)

	// WithdrawSubmission may be called by the submitter or an editorial role.
	WithdrawSubmission(ctx context.Context, actorID, submissionID, reason string) (*domain.Submission, error)
}

// SubmissionSvcFacade combines submission reads and workflow.
type SubmissionSvcFacade interface {
	SubmissionReaderSvc
	SubmissionWorkflowSvc
}
