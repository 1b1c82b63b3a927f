package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
)

// versionTransitions is shared by the publication and issue services. Every method
// must run inside a transaction.
type versionTransitions struct {
	submissionRepo portsrepo.SubmissionRepositoryFacade
	versionRepo    portsrepo.VersionRepositoryFacade
	activity       activityRecorder
}

// move compare-and-sets a version's status, mirrors it onto the submission when the
// version is current, and records the activity entry.
func (t versionTransitions) move(ctx context.Context, sub *domain.Submission, v domain.Version, change domain.VersionStatusChange, category domain.ActivityCategory, message string) (domain.Version, error) {
	change.From = []domain.VersionStatus{v.Status}
	ok, err := t.versionRepo.UpdateVersionStatus(ctx, v.VersionID, change)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, apperrors.NewInvalidTransitionError(fmt.Sprintf("version %d was changed concurrently", v.Number))
	}
	if err := t.mirror(ctx, sub, v.VersionID, change.To, change.UpdatedBy, change.UpdatedAt); err != nil {
		return v, err
	}

	metadata := map[string]any{"versionId": v.VersionID, "version": v.Number, "from": v.Status.String(), "to": change.To.String()}
	if change.PublishedAt != nil {
		metadata["publishedAt"] = change.PublishedAt.Format(time.RFC3339)
	}
	if change.ScheduledAt != nil {
		metadata["scheduledAt"] = change.ScheduledAt.Format(time.RFC3339)
	}
	if err := t.activity.record(ctx, change.UpdatedAt, v.SubmissionID, change.UpdatedBy, category, message, metadata); err != nil {
		return v, err
	}

	v.Status = change.To
	v.ScheduledAt = change.ScheduledAt
	v.PublishedAt = change.PublishedAt
	v.LastUpdatedAt = change.UpdatedAt
	v.LastUpdatedBy = change.UpdatedBy
	return v, nil
}

// mirror copies the current version's status onto a live production-stage submission.
func (t versionTransitions) mirror(ctx context.Context, sub *domain.Submission, versionID string, status domain.VersionStatus, actorID string, now time.Time) error {
	if sub.CurrentVersionID == nil || *sub.CurrentVersionID != versionID {
		return nil
	}
	if sub.IsTerminal() || sub.Stage != domain.StageProduction {
		return nil
	}
	to := domain.SubmissionState{Stage: sub.Stage, Status: status.SubmissionStatusFor()}
	if to == sub.State() {
		return nil
	}
	ok, err := t.submissionRepo.UpdateSubmissionState(ctx, sub.SubmissionID, sub.State(), to, actorID, now)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewInvalidTransitionError("submission was changed concurrently; reload and retry")
	}
	sub.Status = to.Status
	sub.LastUpdatedAt = now
	sub.LastUpdatedBy = actorID
	return nil
}
