package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/google/uuid"
)

type issueService struct {
	BaseService
	issueRepo      portsrepo.IssueRepositoryFacade
	journalRepo    portsrepo.JournalRepositoryFacade
	submissionRepo portsrepo.SubmissionReader
	versionRepo    portsrepo.VersionReader
	transitions    versionTransitions
}

// IssueServiceOption is a function that configures an issueService
type IssueServiceOption func(*issueService)

// WithIssueClock overrides the service clock.
func WithIssueClock(clock func() time.Time) IssueServiceOption {
	return func(s *issueService) {
		s.Clock = clock
	}
}

// NewIssueService creates a new issue service with the provided dependencies
func NewIssueService(repos portsrepo.RepositoryProvider, authorizer portssvc.AuthorizerSvc, options ...IssueServiceOption) portssvc.IssueSvcFacade {
	s := &issueService{
		BaseService:    BaseService{Authorizer: authorizer, TxManager: repos.TxManager},
		issueRepo:      repos.IssueRepo,
		journalRepo:    repos.JournalRepo,
		submissionRepo: repos.SubmissionRepo,
		versionRepo:    repos.VersionRepo,
		transitions: versionTransitions{
			submissionRepo: repos.SubmissionRepo,
			versionRepo:    repos.VersionRepo,
			activity:       activityRecorder{repo: repos.ActivityRepo},
		},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.IssueSvcFacade = (*issueService)(nil)

func (s *issueService) CreateIssue(ctx context.Context, actorID, journalID string, volume int, number string, year int, title string) (*domain.Issue, error) {
	if err := s.AuthorizeUser(ctx, actorID, domain.PublishingRoles, domain.JournalScope(journalID)); err != nil {
		return nil, err
	}
	number = strings.TrimSpace(number)
	switch {
	case volume <= 0:
		return nil, apperrors.NewValidationFailedError("volume must be a positive number")
	case number == "":
		return nil, apperrors.NewValidationFailedError("issue number is required")
	case year < 1000 || year > 9999:
		return nil, apperrors.NewValidationFailedError("year must have four digits")
	}
	if _, err := s.journalRepo.FindJournalByID(ctx, journalID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to load journal", slog.String("journal_id", journalID))
		return nil, err
	}

	issue := domain.Issue{
		IssueID:     uuid.NewString(),
		JournalID:   journalID,
		Volume:      volume,
		Number:      number,
		Year:        year,
		Title:       strings.TrimSpace(title),
		AuditFields: domain.NewAuditFields(actorID, s.Now()),
	}
	if err := s.issueRepo.SaveIssue(ctx, issue); err != nil {
		s.LogUnexpected(ctx, err, "Failed to save issue", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Issue created", slog.String("issue_id", issue.IssueID), slog.String("label", issue.Label()))
	return &issue, nil
}

func (s *issueService) ListIssues(ctx context.Context, actorID, journalID string) ([]domain.Issue, error) {
	if actorID == "" {
		return nil, apperrors.NewUnauthenticatedError("authentication required")
	}
	issues, err := s.issueRepo.ListIssuesByJournal(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list issues", slog.String("journal_id", journalID))
		return nil, err
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}

func (s *issueService) loadIssue(ctx context.Context, actorID, issueID string) (*domain.Issue, error) {
	issue, err := s.issueRepo.FindIssueByID(ctx, issueID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load issue", slog.String("issue_id", issueID))
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.PublishingRoles, domain.JournalScope(issue.JournalID)); err != nil {
		return nil, err
	}
	return issue, nil
}

// cascade moves every version placed in the issue with status `from` using change.
// Versions of closed submissions are left alone.
func (s *issueService) cascade(ctx context.Context, issue *domain.Issue, from domain.VersionStatus, change func(v domain.Version) domain.VersionStatusChange, message string) (int, error) {
	versions, err := s.versionRepo.ListVersionsByIssue(ctx, issue.IssueID, from)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, v := range versions {
		sub, err := s.submissionRepo.FindSubmissionByID(ctx, v.SubmissionID)
		if err != nil {
			return moved, err
		}
		if sub.IsTerminal() {
			s.LogDebug(ctx, "Skipping version of a closed submission",
				slog.String("issue_id", issue.IssueID), slog.String("version_id", v.VersionID))
			continue
		}
		if _, err := s.transitions.move(ctx, sub, v, change(v), domain.ActivityIssue,
			fmt.Sprintf(message, v.Number, issue.Label())); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func (s *issueService) PublishIssue(ctx context.Context, actorID, issueID string) (*domain.Issue, error) {
	issue, err := s.loadIssue(ctx, actorID, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Published {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("%s is already published", issue.Label()))
	}

	now := s.Now()
	var moved int
	err = s.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.issueRepo.SetIssuePublished(ctx, issueID, true, &now, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewInvalidTransitionError(fmt.Sprintf("%s is already published", issue.Label()))
		}
		moved, err = s.cascade(ctx, issue, domain.VersionScheduled, func(v domain.Version) domain.VersionStatusChange {
			return domain.VersionStatusChange{
				To:          domain.VersionPublished,
				ScheduledAt: v.ScheduledAt,
				PublishedAt: &now,
				UpdatedBy:   actorID,
				UpdatedAt:   now,
			}
		}, "Version %d published with %s")
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to publish issue", slog.String("issue_id", issueID))
		return nil, err
	}

	issue.Published = true
	issue.DatePublished = &now
	issue.LastUpdatedAt = now
	issue.LastUpdatedBy = actorID
	s.LogInfo(ctx, "Issue published", slog.String("issue_id", issueID), slog.Int("versions", moved))
	return issue, nil
}

func (s *issueService) UnpublishIssue(ctx context.Context, actorID, issueID string) (*domain.Issue, error) {
	issue, err := s.loadIssue(ctx, actorID, issueID)
	if err != nil {
		return nil, err
	}
	if !issue.Published {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("%s is not published", issue.Label()))
	}

	now := s.Now()
	var moved int
	err = s.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.issueRepo.SetIssuePublished(ctx, issueID, false, nil, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewInvalidTransitionError(fmt.Sprintf("%s is not published", issue.Label()))
		}
		moved, err = s.cascade(ctx, issue, domain.VersionPublished, func(v domain.Version) domain.VersionStatusChange {
			scheduledAt := v.ScheduledAt
			if scheduledAt == nil {
				scheduledAt = v.PublishedAt
			}
			return domain.VersionStatusChange{
				To:          domain.VersionScheduled,
				ScheduledAt: scheduledAt,
				UpdatedBy:   actorID,
				UpdatedAt:   now,
			}
		}, "Version %d rescheduled after %s was unpublished")
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to unpublish issue", slog.String("issue_id", issueID))
		return nil, err
	}

	issue.Published = false
	issue.DatePublished = nil
	issue.LastUpdatedAt = now
	issue.LastUpdatedBy = actorID
	s.LogInfo(ctx, "Issue unpublished", slog.String("issue_id", issueID), slog.Int("versions", moved))
	return issue, nil
}
