package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// VersionReader defines read operations for submission versions.
type VersionReader interface {
	FindVersionByID(ctx context.Context, versionID string) (*domain.Version, error)

	// ListVersionsBySubmission returns versions ordered by number.
	ListVersionsBySubmission(ctx context.Context, submissionID string) ([]domain.Version, error)

	// MaxVersionNumber returns 0 when the submission has no versions.
	MaxVersionNumber(ctx context.Context, submissionID string) (int, error)

	// ListVersionsByIssue returns versions placed in the issue with one of statuses.
	ListVersionsByIssue(ctx context.Context, issueID string, statuses ...domain.VersionStatus) ([]domain.Version, error)

	// ListDueScheduledVersions returns scheduled versions whose scheduled_at is at or before now.
	ListDueScheduledVersions(ctx context.Context, now time.Time) ([]domain.Version, error)
}

// VersionWriter defines write operations for submission versions.
type VersionWriter interface {
	// SaveVersion returns apperrors.ErrConflict when (submission, number) is taken.
	SaveVersion(ctx context.Context, version domain.Version) error

	// UpdateVersionStatus applies change only if the status is still one of change.From.
	UpdateVersionStatus(ctx context.Context, versionID string, change domain.VersionStatusChange) (bool, error)

	// MergeVersionMetadata merges patch into the stored metadata, leaving other keys untouched.
	MergeVersionMetadata(ctx context.Context, versionID string, patch map[string]any, updatedBy string, updatedAt time.Time) error
}

// VersionRepositoryFacade combines all version repository interfaces.
type VersionRepositoryFacade interface {
	VersionReader
	VersionWriter
}
