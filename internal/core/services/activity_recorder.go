package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/google/uuid"
)

// activityRecorder appends audit entries. It is called inside the transaction of the
// state change it describes, so a rolled back change leaves no entry behind.
type activityRecorder struct {
	repo portsrepo.ActivityRepository
}

func (r activityRecorder) record(ctx context.Context, at time.Time, submissionID, actorID string, category domain.ActivityCategory, message string, metadata map[string]any) error {
	entry := domain.ActivityLogEntry{
		EntryID:      uuid.NewString(),
		SubmissionID: submissionID,
		ActorID:      actorID,
		Category:     category,
		Message:      message,
		Metadata:     metadata,
		CreatedAt:    at,
	}
	if err := r.repo.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("appending activity for submission %s: %w", submissionID, err)
	}
	return nil
}
