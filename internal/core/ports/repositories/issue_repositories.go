package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// IssueRepositoryFacade persists journal issues.
type IssueRepositoryFacade interface {
	SaveIssue(ctx context.Context, issue domain.Issue) error
	FindIssueByID(ctx context.Context, issueID string) (*domain.Issue, error)
	ListIssuesByJournal(ctx context.Context, journalID string) ([]domain.Issue, error)

	// SetIssuePublished flips the published flag only if it differs from published.
	SetIssuePublished(ctx context.Context, issueID string, published bool, datePublished *time.Time, updatedBy string, updatedAt time.Time) (bool, error)
}
