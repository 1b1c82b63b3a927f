package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/google/uuid"
)

const defaultVersionCreateMaxAttempts = 3

// publicationService manages versions and their publication state.
type publicationService struct {
	BaseService
	submissionRepo portsrepo.SubmissionRepositoryFacade
	versionRepo    portsrepo.VersionRepositoryFacade
	issueRepo      portsrepo.IssueRepositoryFacade
	activity       activityRecorder
	transitions    versionTransitions
	maxAttempts    int
}

// PublicationServiceOption is a function that configures a publicationService
type PublicationServiceOption func(*publicationService)

// WithVersionCreateMaxAttempts bounds retries when the next version number is taken.
func WithVersionCreateMaxAttempts(n int) PublicationServiceOption {
	return func(s *publicationService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithPublicationClock overrides the service clock.
func WithPublicationClock(clock func() time.Time) PublicationServiceOption {
	return func(s *publicationService) {
		s.Clock = clock
	}
}

// NewPublicationService creates a new publication service with the provided dependencies
func NewPublicationService(repos portsrepo.RepositoryProvider, authorizer portssvc.AuthorizerSvc, options ...PublicationServiceOption) portssvc.PublicationSvcFacade {
	activity := activityRecorder{repo: repos.ActivityRepo}
	s := &publicationService{
		BaseService:    BaseService{Authorizer: authorizer, TxManager: repos.TxManager},
		submissionRepo: repos.SubmissionRepo,
		versionRepo:    repos.VersionRepo,
		issueRepo:      repos.IssueRepo,
		activity:       activity,
		transitions: versionTransitions{
			submissionRepo: repos.SubmissionRepo,
			versionRepo:    repos.VersionRepo,
			activity:       activity,
		},
		maxAttempts: defaultVersionCreateMaxAttempts,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.PublicationSvcFacade = (*publicationService)(nil)

func (s *publicationService) loadSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load submission", slog.String("submission_id", submissionID))
		return nil, err
	}
	return sub, nil
}

// loadVersion returns the version and its submission after checking publishing rights.
func (s *publicationService) loadVersion(ctx context.Context, actorID, versionID string) (*domain.Version, *domain.Submission, error) {
	v, err := s.versionRepo.FindVersionByID(ctx, versionID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load version", slog.String("version_id", versionID))
		return nil, nil, err
	}
	sub, err := s.loadSubmission(ctx, v.SubmissionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.PublishingRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, nil, err
	}
	return v, sub, nil
}

func (s *publicationService) CreateVersion(ctx context.Context, actorID, submissionID string, metadata map[string]any) (*domain.Version, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.PublishingRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s", sub.Status))
	}

	var version domain.Version
	for attempt := 1; ; attempt++ {
		err = s.InTx(ctx, func(ctx context.Context) error {
			versions, err := s.versionRepo.ListVersionsBySubmission(ctx, submissionID)
			if err != nil {
				return err
			}
			maxNumber, err := s.versionRepo.MaxVersionNumber(ctx, submissionID)
			if err != nil {
				return err
			}

			base := map[string]any{}
			if len(versions) > 0 {
				base = domain.MergeMetadata(versions[len(versions)-1].Metadata, nil)
				delete(base, domain.MetaDatePublished)
			}

			now := s.Now()
			version = domain.Version{
				VersionID:    uuid.NewString(),
				SubmissionID: submissionID,
				Number:       maxNumber + 1,
				Status:       domain.VersionQueued,
				Metadata:     domain.MergeMetadata(base, metadata),
				AuditFields:  domain.NewAuditFields(actorID, now),
			}
			if err := s.versionRepo.SaveVersion(ctx, version); err != nil {
				return err
			}
			return s.activity.record(ctx, now, submissionID, actorID, domain.ActivityPublication,
				fmt.Sprintf("Version %d created", version.Number),
				map[string]any{"versionId": version.VersionID, "version": version.Number})
		})
		if err == nil || !errors.Is(err, apperrors.ErrConflict) || attempt >= s.maxAttempts {
			break
		}
		s.LogDebug(ctx, "Version number taken, retrying",
			slog.String("submission_id", submissionID), slog.Int("attempt", attempt))
	}
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to create version", slog.String("submission_id", submissionID))
		return nil, err
	}

	s.LogInfo(ctx, "Version created",
		slog.String("submission_id", submissionID),
		slog.Int("version", version.Number))
	return &version, nil
}

func (s *publicationService) ListVersions(ctx context.Context, actorID, submissionID string) ([]domain.Version, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if actorID != sub.SubmitterID {
		if err := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID)); err != nil {
			return nil, err
		}
	}
	versions, err := s.versionRepo.ListVersionsBySubmission(ctx, submissionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list versions", slog.String("submission_id", submissionID))
		return nil, err
	}
	if versions == nil {
		versions = []domain.Version{}
	}
	return versions, nil
}

func (s *publicationService) PromoteVersion(ctx context.Context, actorID, versionID string) (*domain.Version, error) {
	v, sub, err := s.loadVersion(ctx, actorID, versionID)
	if err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s", sub.Status))
	}
	if sub.CurrentVersionID != nil && *sub.CurrentVersionID == versionID {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("version %d is already current", v.Number))
	}

	err = s.InTx(ctx, func(ctx context.Context) error {
		now := s.Now()
		if err := s.submissionRepo.SetCurrentVersion(ctx, sub.SubmissionID, versionID, actorID, now); err != nil {
			return err
		}
		sub.CurrentVersionID = &versionID
		if err := s.transitions.mirror(ctx, sub, versionID, v.Status, actorID, now); err != nil {
			return err
		}
		return s.activity.record(ctx, now, sub.SubmissionID, actorID, domain.ActivityPublication,
			fmt.Sprintf("Version %d is now the current version", v.Number),
			map[string]any{"versionId": versionID, "version": v.Number})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to promote version", slog.String("version_id", versionID))
		return nil, err
	}

	s.LogInfo(ctx, "Version promoted", slog.String("version_id", versionID), slog.Int("version", v.Number))
	return v, nil
}

func (s *publicationService) PublishVersion(ctx context.Context, actorID, versionID, publishDate string, publishNow bool) (*domain.Version, error) {
	v, sub, err := s.loadVersion(ctx, actorID, versionID)
	if err != nil {
		return nil, err
	}
	if publishDate == "" {
		return nil, apperrors.NewInvalidTransitionError("a publish date is required to publish")
	}
	date, err := domain.ParseDate(publishDate)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	if sub.IsTerminal() || sub.Stage != domain.StageProduction {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("only production submissions can be published; submission is %s/%s", sub.Stage, sub.Status))
	}
	if v.Status != domain.VersionQueued {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("version %d is %s; unpublish it first", v.Number, v.Status))
	}

	now := s.Now()
	change := domain.VersionStatusChange{UpdatedBy: actorID, UpdatedAt: now, ScheduledAt: &date}
	message := fmt.Sprintf("Version %d scheduled for %s", v.Number, date.Format(domain.DateLayout))
	if publishNow {
		change.To = domain.VersionPublished
		change.PublishedAt = &date
		message = fmt.Sprintf("Version %d published", v.Number)
	} else {
		if !date.After(now) {
			return nil, apperrors.NewValidationFailedError("a scheduled publish date must be in the future")
		}
		change.To = domain.VersionScheduled
	}

	var updated domain.Version
	err = s.InTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.transitions.move(ctx, sub, *v, change, domain.ActivityPublication, message)
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to publish version", slog.String("version_id", versionID))
		return nil, err
	}

	s.LogInfo(ctx, "Version publication updated",
		slog.String("version_id", versionID),
		slog.String("status", updated.Status.String()))
	return &updated, nil
}

func (s *publicationService) UnpublishVersions(ctx context.Context, actorID, submissionID string, versionID *string) ([]domain.Version, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.PublishingRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	if sub.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s", sub.Status))
	}

	var targets []domain.Version
	if versionID != nil {
		v, err := s.versionRepo.FindVersionByID(ctx, *versionID)
		if err != nil {
			s.LogUnexpected(ctx, err, "Failed to load version", slog.String("version_id", *versionID))
			return nil, err
		}
		if v.SubmissionID != submissionID {
			return nil, apperrors.NewNotFoundError("version not found for this submission")
		}
		if v.Status == domain.VersionQueued {
			return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("version %d is not published or scheduled", v.Number))
		}
		targets = append(targets, *v)
	} else {
		versions, err := s.versionRepo.ListVersionsBySubmission(ctx, submissionID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list versions", slog.String("submission_id", submissionID))
			return nil, err
		}
		for _, v := range versions {
			if v.Status != domain.VersionQueued {
				targets = append(targets, v)
			}
		}
		if len(targets) == 0 {
			return nil, apperrors.NewInvalidTransitionError("no published or scheduled versions to unpublish")
		}
	}

	updated := make([]domain.Version, 0, len(targets))
	err = s.InTx(ctx, func(ctx context.Context) error {
		updated = updated[:0]
		now := s.Now()
		for _, v := range targets {
			change := domain.VersionStatusChange{To: domain.VersionQueued, UpdatedBy: actorID, UpdatedAt: now}
			u, err := s.transitions.move(ctx, sub, v, change, domain.ActivityPublication,
				fmt.Sprintf("Version %d unpublished", v.Number))
			if err != nil {
				return err
			}
			updated = append(updated, u)
		}
		return nil
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to unpublish versions", slog.String("submission_id", submissionID))
		return nil, err
	}

	s.LogInfo(ctx, "Versions unpublished",
		slog.String("submission_id", submissionID),
		slog.Int("count", len(updated)))
	return updated, nil
}

func (s *publicationService) AssignIssue(ctx context.Context, actorID, versionID string, placement domain.IssuePlacement) (*domain.Version, error) {
	if placement.IssueID == "" {
		return nil, apperrors.NewValidationFailedError("issueId is required")
	}
	v, sub, err := s.loadVersion(ctx, actorID, versionID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.FindIssueByID(ctx, placement.IssueID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load issue", slog.String("issue_id", placement.IssueID))
		return nil, err
	}
	if issue.JournalID != sub.JournalID {
		return nil, apperrors.NewValidationFailedError("issue belongs to a different journal")
	}

	patch := placement.MetadataPatch()
	now := s.Now()
	err = s.InTx(ctx, func(ctx context.Context) error {
		if err := s.versionRepo.MergeVersionMetadata(ctx, versionID, patch, actorID, now); err != nil {
			return err
		}
		return s.activity.record(ctx, now, sub.SubmissionID, actorID, domain.ActivityIssue,
			fmt.Sprintf("Version %d placed in %s", v.Number, issue.Label()),
			map[string]any{"versionId": versionID, "placement": patch})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to assign issue", slog.String("version_id", versionID))
		return nil, err
	}

	v.Metadata = domain.MergeMetadata(v.Metadata, patch)
	v.LastUpdatedAt = now
	v.LastUpdatedBy = actorID
	return v, nil
}

func (s *publicationService) PromoteDueVersions(ctx context.Context, actorID string, now time.Time) ([]domain.Version, error) {
	if err := s.AuthorizeUser(ctx, actorID, nil, domain.SiteScope()); err != nil {
		return nil, err
	}
	due, err := s.versionRepo.ListDueScheduledVersions(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due versions")
		return nil, err
	}

	promoted := make([]domain.Version, 0, len(due))
	issuePublished := map[string]bool{}
	for _, v := range due {
		sub, err := s.loadSubmission(ctx, v.SubmissionID)
		if err != nil {
			return promoted, err
		}
		if sub.IsTerminal() {
			s.LogDebug(ctx, "Skipping due version of a closed submission", slog.String("version_id", v.VersionID))
			continue
		}
		// Versions placed in an issue go live with the issue.
		if issueID, ok := v.IssueID(); ok {
			published, seen := issuePublished[issueID]
			if !seen {
				issue, err := s.issueRepo.FindIssueByID(ctx, issueID)
				if err != nil {
					s.LogError(ctx, err, "Failed to load issue of due version", slog.String("issue_id", issueID))
					return promoted, err
				}
				published = issue.Published
				issuePublished[issueID] = published
			}
			if !published {
				s.LogDebug(ctx, "Skipping due version placed in an unpublished issue",
					slog.String("version_id", v.VersionID), slog.String("issue_id", issueID))
				continue
			}
		}

		publishedAt := now
		if v.ScheduledAt != nil {
			publishedAt = *v.ScheduledAt
		}
		change := domain.VersionStatusChange{
			To:          domain.VersionPublished,
			ScheduledAt: v.ScheduledAt,
			PublishedAt: &publishedAt,
			UpdatedBy:   actorID,
			UpdatedAt:   s.Now(),
		}

		var u domain.Version
		err = s.InTx(ctx, func(ctx context.Context) error {
			var err error
			u, err = s.transitions.move(ctx, sub, v, change, domain.ActivityPublication,
				fmt.Sprintf("Scheduled version %d published", v.Number))
			return err
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidTransition) {
				s.LogInfo(ctx, "Due version changed before promotion, skipping", slog.String("version_id", v.VersionID))
				continue
			}
			s.LogError(ctx, err, "Failed to promote due version", slog.String("version_id", v.VersionID))
			return promoted, err
		}
		promoted = append(promoted, u)
	}

	s.LogInfo(ctx, "Scheduled versions promoted", slog.Int("due", len(due)), slog.Int("promoted", len(promoted)))
	return promoted, nil
}
