package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// submissionService drives the submission stage machine.
type submissionService struct {
	BaseService
	submissionRepo portsrepo.SubmissionRepositoryFacade
	reviewRepo     portsrepo.ReviewRepositoryFacade
	versionRepo    portsrepo.VersionReader
	journalRepo    portsrepo.JournalRepositoryFacade
	activityRepo   portsrepo.ActivityRepository
	activity       activityRecorder
	projection     roleProjection
}

// NewSubmissionService creates a new submission service with the provided dependencies
func NewSubmissionService(repos portsrepo.RepositoryProvider, authorizer portssvc.AuthorizerSvc) portssvc.SubmissionSvcFacade {
	return &submissionService{
		BaseService:    BaseService{Authorizer: authorizer, TxManager: repos.TxManager},
		submissionRepo: repos.SubmissionRepo,
		reviewRepo:     repos.ReviewRepo,
		versionRepo:    repos.VersionRepo,
		journalRepo:    repos.JournalRepo,
		activityRepo:   repos.ActivityRepo,
		activity:       activityRecorder{repo: repos.ActivityRepo},
		projection:     roleProjection{repo: repos.RoleRepo},
	}
}

var _ portssvc.SubmissionSvcFacade = (*submissionService)(nil)

func (s *submissionService) load(ctx context.Context, submissionID string) (*domain.Submission, error) {
	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load submission", slog.String("submission_id", submissionID))
		return nil, err
	}
	return sub, nil
}

// authorizeView lets the submitter and the journal's editorial staff read a submission.
func (s *submissionService) authorizeView(ctx context.Context, actorID string, sub *domain.Submission) error {
	if actorID == "" {
		return apperrors.NewUnauthenticatedError("authentication required")
	}
	if actorID == sub.SubmitterID {
		return nil
	}
	return s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID))
}

func (s *submissionService) CreateSubmission(ctx context.Context, actorID, journalID, title string) (*domain.Submission, error) {
	if actorID == "" {
		return nil, apperrors.NewUnauthenticatedError("authentication required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationFailedError("title is required")
	}
	if _, err := s.journalRepo.FindJournalByID(ctx, journalID); err != nil {
		s.LogUnexpected(ctx, err, "Journal lookup failed", slog.String("journal_id", journalID))
		return nil, err
	}

	now := s.Now()
	sub := domain.Submission{
		SubmissionID:  uuid.NewString(),
		JournalID:     journalID,
		SubmitterID:   actorID,
		Title:         title,
		Stage:         domain.StageSubmission,
		Status:        domain.SubmissionQueued,
		DateSubmitted: now,
		AuditFields:   domain.NewAuditFields(actorID, now),
	}

	err := s.InTx(ctx, func(ctx context.Context) error {
		if err := s.submissionRepo.SaveSubmission(ctx, sub); err != nil {
			return err
		}
		author := domain.RoleAssignment{UserID: actorID, Scope: domain.JournalScope(journalID), Role: domain.RoleAuthor}
		if _, err := s.projection.grant(ctx, author); err != nil {
			return err
		}
		return s.activity.record(ctx, now, sub.SubmissionID, actorID, domain.ActivitySubmission,
			"Submission created", map[string]any{"title": title})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to create submission", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Submission created",
		slog.String("submission_id", sub.SubmissionID),
		slog.String("journal_id", journalID))
	return &sub, nil
}

func (s *submissionService) GetSubmission(ctx context.Context, actorID, submissionID string) (*domain.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, actorID, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) GetSubmissionOverview(ctx context.Context, actorID, submissionID string) (*domain.SubmissionOverview, error) {
	sub, err := s.GetSubmission(ctx, actorID, submissionID)
	if err != nil {
		return nil, err
	}

	overview := &domain.SubmissionOverview{Submission: *sub}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rounds, err := s.reviewRepo.ListReviewRounds(gctx, submissionID)
		if err != nil {
			return fmt.Errorf("listing review rounds: %w", err)
		}
		details := make([]domain.RoundDetail, 0, len(rounds))
		for _, round := range rounds {
			assignments, err := s.reviewRepo.ListAssignmentsByRound(gctx, round.RoundID)
			if err != nil {
				return fmt.Errorf("listing assignments of round %s: %w", round.RoundID, err)
			}
			details = append(details, domain.RoundDetail{
				Round:       round,
				Assignments: assignments,
				Closed:      domain.RoundClosed(assignments),
			})
		}
		overview.Rounds = details
		return nil
	})

	g.Go(func() error {
		versions, err := s.versionRepo.ListVersionsBySubmission(gctx, submissionID)
		if err != nil {
			return fmt.Errorf("listing versions: %w", err)
		}
		overview.Versions = versions
		return nil
	})

	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build submission overview", slog.String("submission_id", submissionID))
		return nil, err
	}
	if overview.Versions == nil {
		overview.Versions = []domain.Version{}
	}
	return overview, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, actorID, journalID string, limit int, nextToken *string) ([]domain.Submission, *string, error) {
	if err := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(journalID)); err != nil {
		return nil, nil, err
	}
	subs, next, err := s.submissionRepo.ListSubmissionsByJournal(ctx, journalID, normalizeLimit(limit), nextToken)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to list submissions", slog.String("journal_id", journalID))
		return nil, nil, err
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	return subs, next, nil
}

func (s *submissionService) ListActivity(ctx context.Context, actorID, submissionID string, limit int, nextToken *string) ([]domain.ActivityLogEntry, *string, error) {
	if _, err := s.GetSubmission(ctx, actorID, submissionID); err != nil {
		return nil, nil, err
	}
	entries, next, err := s.activityRepo.ListActivity(ctx, submissionID, normalizeLimit(limit), nextToken)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to list activity", slog.String("submission_id", submissionID))
		return nil, nil, err
	}
	if entries == nil {
		entries = []domain.ActivityLogEntry{}
	}
	return entries, next, nil
}

// transition compare-and-sets the submission state and appends its activity entry.
// It must run inside a transaction.
func (s *submissionService) transition(ctx context.Context, sub *domain.Submission, to domain.SubmissionState, actorID string, category domain.ActivityCategory, message string, metadata map[string]any) (*domain.Submission, error) {
	now := s.Now()
	ok, err := s.submissionRepo.UpdateSubmissionState(ctx, sub.SubmissionID, sub.State(), to, actorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewInvalidTransitionError("submission was changed concurrently; reload and retry")
	}
	if err := s.activity.record(ctx, now, sub.SubmissionID, actorID, category, message, metadata); err != nil {
		return nil, err
	}

	updated := *sub
	updated.Stage = to.Stage
	updated.Status = to.Status
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actorID
	return &updated, nil
}

// checkReviewExit enforces the review -> copyediting precondition: the latest round is
// closed and carries an accept decision.
func (s *submissionService) checkReviewExit(ctx context.Context, submissionID string) error {
	rounds, err := s.reviewRepo.ListReviewRounds(ctx, submissionID)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		return apperrors.NewInvalidTransitionError("at least one review round is required before copyediting")
	}
	latest := rounds[len(rounds)-1]
	assignments, err := s.reviewRepo.ListAssignmentsByRound(ctx, latest.RoundID)
	if err != nil {
		return err
	}
	if !domain.RoundClosed(assignments) {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d still has open assignments", latest.RoundNumber))
	}
	if latest.Decision != domain.DecisionAccept {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d has no accept decision", latest.RoundNumber))
	}
	return nil
}

// reopenAcceptedRound turns the accept decision of the latest round into a revision
// request, so leaving review again needs a new accepted round.
func (s *submissionService) reopenAcceptedRound(ctx context.Context, submissionID string) error {
	rounds, err := s.reviewRepo.ListReviewRounds(ctx, submissionID)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		return nil
	}
	latest := rounds[len(rounds)-1]
	if latest.Decision != domain.DecisionAccept {
		return nil
	}
	ok, err := s.reviewRepo.ReviseRoundDecision(ctx, latest.RoundID, domain.DecisionAccept, domain.DecisionRequestRevisions, s.Now())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d was changed concurrently", latest.RoundNumber))
	}
	return nil
}

func (s *submissionService) AdvanceStage(ctx context.Context, actorID, submissionID string, target domain.Stage) (*domain.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.EditorialRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	next, err := domain.PlanAdvance(sub.State(), target)
	if err != nil {
		return nil, err
	}

	var updated *domain.Submission
	err = s.InTx(ctx, func(ctx context.Context) error {
		if sub.Stage == domain.StageReview {
			if err := s.checkReviewExit(ctx, sub.SubmissionID); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.transition(ctx, sub, next, actorID, domain.ActivityStage,
			fmt.Sprintf("Stage changed from %s to %s", sub.Stage, next.Stage),
			map[string]any{"from": sub.Stage.String(), "to": next.Stage.String()})
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to advance submission",
			slog.String("submission_id", submissionID), slog.String("target", target.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Submission advanced",
		slog.String("submission_id", submissionID),
		slog.String("from", sub.Stage.String()),
		slog.String("to", next.Stage.String()))
	return updated, nil
}

func (s *submissionService) ReturnToReview(ctx context.Context, actorID, submissionID string) (*domain.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.EditorialRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	next, err := domain.PlanReturnToReview(sub.State())
	if err != nil {
		return nil, err
	}

	var updated *domain.Submission
	err = s.InTx(ctx, func(ctx context.Context) error {
		if err := s.reopenAcceptedRound(ctx, sub.SubmissionID); err != nil {
			return err
		}
		var err error
		updated, err = s.transition(ctx, sub, next, actorID, domain.ActivityStage,
			fmt.Sprintf("Stage changed from %s to %s for revisions", sub.Stage, next.Stage),
			map[string]any{"from": sub.Stage.String(), "to": next.Stage.String(), "revisions": true})
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to return submission to review", slog.String("submission_id", submissionID))
		return nil, err
	}
	return updated, nil
}

func (s *submissionService) RecordDecision(ctx context.Context, actorID, submissionID string, decision domain.EditorialDecision) (*domain.ReviewRound, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.EditorialRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	if decision == domain.DecisionNone {
		return nil, apperrors.NewValidationFailedError("decision is required")
	}
	if sub.IsTerminal() || sub.Stage != domain.StageReview {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("decisions can only be recorded in review; submission is %s/%s", sub.Stage, sub.Status))
	}

	var round domain.ReviewRound
	err = s.InTx(ctx, func(ctx context.Context) error {
		rounds, err := s.reviewRepo.ListReviewRounds(ctx, submissionID)
		if err != nil {
			return err
		}
		if len(rounds) == 0 {
			return apperrors.NewInvalidTransitionError("no review round to decide on")
		}
		round = rounds[len(rounds)-1]
		assignments, err := s.reviewRepo.ListAssignmentsByRound(ctx, round.RoundID)
		if err != nil {
			return err
		}
		if !domain.RoundClosed(assignments) {
			return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d still has open assignments", round.RoundNumber))
		}

		now := s.Now()
		ok, err := s.reviewRepo.RecordRoundDecision(ctx, round.RoundID, decision, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d already has a decision", round.RoundNumber))
		}
		round.Decision = decision
		round.DecidedAt = &now

		return s.activity.record(ctx, now, submissionID, actorID, domain.ActivityDecision,
			fmt.Sprintf("Editorial decision %q recorded on review round %d", decision, round.RoundNumber),
			map[string]any{"roundId": round.RoundID, "decision": decision.String()})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to record decision", slog.String("submission_id", submissionID))
		return nil, err
	}

	s.LogInfo(ctx, "Editorial decision recorded",
		slog.String("submission_id", submissionID),
		slog.String("decision", decision.String()))
	return &round, nil
}

func (s *submissionService) terminate(ctx context.Context, actorID string, sub *domain.Submission, status domain.SubmissionStatus, reason string) (*domain.Submission, error) {
	next, err := domain.PlanTerminate(sub.State(), status)
	if err != nil {
		return nil, err
	}
	metadata := map[string]any{"stage": sub.Stage.String(), "status": status.String()}
	if reason != "" {
		metadata["reason"] = reason
	}

	var updated *domain.Submission
	err = s.InTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.transition(ctx, sub, next, actorID, domain.ActivitySubmission,
			fmt.Sprintf("Submission %s during %s", status, sub.Stage), metadata)
		return err
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to terminate submission",
			slog.String("submission_id", sub.SubmissionID), slog.String("status", status.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Submission closed",
		slog.String("submission_id", sub.SubmissionID),
		slog.String("status", status.String()))
	return updated, nil
}

func (s *submissionService) DeclineSubmission(ctx context.Context, actorID, submissionID, reason string) (*domain.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.EditorialRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	return s.terminate(ctx, actorID, sub, domain.SubmissionDeclined, reason)
}

func (s *submissionService) WithdrawSubmission(ctx context.Context, actorID, submissionID, reason string) (*domain.Submission, error) {
	sub, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, apperrors.NewUnauthenticatedError("authentication required")
	}
	required := domain.EditorialRoles
	if actorID == sub.SubmitterID {
		required = append([]domain.Role{domain.RoleAuthor}, domain.EditorialRoles...)
	}
	if err := s.AuthorizeUser(ctx, actorID, required, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	return s.terminate(ctx, actorID, sub, domain.SubmissionWithdrawn, reason)
}
