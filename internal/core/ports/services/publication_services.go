package services

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// PublicationSvcFacade manages submission versions and their publication.
type PublicationSvcFacade interface {
	// CreateVersion adds a queued version numbered max+1.
	CreateVersion(ctx context.Context, actorID, submissionID string, metadata map[string]any) (*domain.Version, error)
	ListVersions(ctx context.Context, actorID, submissionID string) ([]domain.Version, error)

	// PromoteVersion makes the version the submission's current one.
	PromoteVersion(ctx context.Context, actorID, versionID string) (*domain.Version, error)

	// PublishVersion publishes at once when publishNow is set, otherwise schedules for publishDate.
	PublishVersion(ctx context.Context, actorID, versionID, publishDate string, publishNow bool) (*domain.Version, error)

	// UnpublishVersions reverts one version, or every non-queued version when versionID is nil.
	UnpublishVersions(ctx context.Context, actorID, submissionID string, versionID *string) ([]domain.Version, error)

	// AssignIssue merges the placement into the version metadata.
	AssignIssue(ctx context.Context, actorID, versionID string, placement domain.IssuePlacement) (*domain.Version, error)

	// PromoteDueVersions publishes scheduled versions whose date has arrived. Site admin only.
	PromoteDueVersions(ctx context.Context, actorID string, now time.Time) ([]domain.Version, error)
}

// IssueSvcFacade manages journal issues.
type IssueSvcFacade interface {
	CreateIssue(ctx context.Context, actorID, journalID string, volume int, number string, year int, title string) (*domain.Issue, error)
	ListIssues(ctx context.Context, actorID, journalID string) ([]domain.Issue, error)

	// PublishIssue marks the issue published and publishes the scheduled versions placed in it.
	PublishIssue(ctx context.Context, actorID, issueID string) (*domain.Issue, error)

	// UnpublishIssue marks the issue unpublished; its published versions go back to scheduled.
	UnpublishIssue(ctx context.Context, actorID, issueID string) (*domain.Issue, error)
}
