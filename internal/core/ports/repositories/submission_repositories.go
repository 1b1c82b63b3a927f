package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// SubmissionReader defines read operations for submissions.
type SubmissionReader interface {
	FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error)

	// ListSubmissionsByJournal returns newest first, with a token for the next page.
	ListSubmissionsByJournal(ctx context.Context, journalID string, limit int, nextToken *string) ([]domain.Submission, *string, error)
}

// SubmissionWriter defines write operations for submissions.
type SubmissionWriter interface {
	SaveSubmission(ctx context.Context, submission domain.Submission) error

	// UpdateSubmissionState moves the submission to `to` only if it is still in `from`.
	// It reports false, without error, when the compare-and-set lost.
	UpdateSubmissionState(ctx context.Context, submissionID string, from, to domain.SubmissionState, updatedBy string, updatedAt time.Time) (bool, error)

	// SetCurrentVersion points the submission at versionID.
	SetCurrentVersion(ctx context.Context, submissionID, versionID string, updatedBy string, updatedAt time.Time) error
}

// SubmissionRepositoryFacade combines all submission repository interfaces.
type SubmissionRepositoryFacade interface {
	SubmissionReader
	SubmissionWriter
}
