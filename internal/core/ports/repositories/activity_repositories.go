package repositories

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// ActivityRepository is the append-only submission activity log.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, entry domain.ActivityLogEntry) error

	// ListActivity returns newest first, with a token for the next page.
	ListActivity(ctx context.Context, submissionID string, limit int, nextToken *string) ([]domain.ActivityLogEntry, *string, error)
}
