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

const roundCreateMaxAttempts = 3

// reviewService manages review rounds and the reviewer assignment state machine.
type reviewService struct {
	BaseService
	submissionRepo portsrepo.SubmissionReader
	reviewRepo     portsrepo.ReviewRepositoryFacade
	userRepo       portsrepo.UserReader
	journalRepo    portsrepo.JournalRepositoryFacade
	activity       activityRecorder
	projection     roleProjection
	notifier       portssvc.ReviewerNotifier
}

// ReviewServiceOption is a function that configures a reviewService
type ReviewServiceOption func(*reviewService)

// WithReviewerNotifier sets the notifier used for reviewer invitations.
func WithReviewerNotifier(n portssvc.ReviewerNotifier) ReviewServiceOption {
	return func(s *reviewService) {
		s.notifier = n
	}
}

// WithReviewClock overrides the service clock.
func WithReviewClock(clock func() time.Time) ReviewServiceOption {
	return func(s *reviewService) {
		s.Clock = clock
	}
}

// NewReviewService creates a new review service with the provided dependencies
func NewReviewService(repos portsrepo.RepositoryProvider, authorizer portssvc.AuthorizerSvc, options ...ReviewServiceOption) portssvc.ReviewSvcFacade {
	s := &reviewService{
		BaseService:    BaseService{Authorizer: authorizer, TxManager: repos.TxManager},
		submissionRepo: repos.SubmissionRepo,
		reviewRepo:     repos.ReviewRepo,
		userRepo:       repos.UserRepo,
		journalRepo:    repos.JournalRepo,
		activity:       activityRecorder{repo: repos.ActivityRepo},
		projection:     roleProjection{repo: repos.RoleRepo},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.ReviewSvcFacade = (*reviewService)(nil)

func (s *reviewService) loadSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	sub, err := s.submissionRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load submission", slog.String("submission_id", submissionID))
		return nil, err
	}
	return sub, nil
}

func requireInReview(sub *domain.Submission) error {
	if sub.IsTerminal() {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s", sub.Status))
	}
	if sub.Stage != domain.StageReview {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is in %s, not review", sub.Stage))
	}
	return nil
}

func (s *reviewService) OpenReviewRound(ctx context.Context, actorID, submissionID string) (*domain.ReviewRound, error) {
	sub, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	if err := requireInReview(sub); err != nil {
		return nil, err
	}

	var round domain.ReviewRound
	for attempt := 1; ; attempt++ {
		err = s.InTx(ctx, func(ctx context.Context) error {
			rounds, err := s.reviewRepo.ListReviewRounds(ctx, submissionID)
			if err != nil {
				return err
			}
			number := 1
			if len(rounds) > 0 {
				latest := rounds[len(rounds)-1]
				assignments, err := s.reviewRepo.ListAssignmentsByRound(ctx, latest.RoundID)
				if err != nil {
					return err
				}
				if !domain.RoundClosed(assignments) || !latest.Decided() {
					return apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d must be closed and decided first", latest.RoundNumber))
				}
				number = latest.RoundNumber + 1
			}

			now := s.Now()
			round = domain.ReviewRound{
				RoundID:      uuid.NewString(),
				SubmissionID: submissionID,
				RoundNumber:  number,
				Stage:        domain.StageReview,
				CreatedAt:    now,
				CreatedBy:    actorID,
			}
			if err := s.reviewRepo.SaveReviewRound(ctx, round); err != nil {
				return err
			}
			return s.activity.record(ctx, now, submissionID, actorID, domain.ActivityReview,
				fmt.Sprintf("Review round %d opened", number),
				map[string]any{"roundId": round.RoundID, "round": number})
		})
		if err == nil || !errors.Is(err, apperrors.ErrConflict) || attempt >= roundCreateMaxAttempts {
			break
		}
		s.LogDebug(ctx, "Review round number taken, retrying", slog.Int("attempt", attempt))
	}
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to open review round", slog.String("submission_id", submissionID))
		return nil, err
	}

	s.LogInfo(ctx, "Review round opened",
		slog.String("submission_id", submissionID),
		slog.Int("round", round.RoundNumber))
	return &round, nil
}

func (s *reviewService) GetReviewRound(ctx context.Context, actorID, roundID string) (*domain.RoundDetail, error) {
	round, err := s.reviewRepo.FindReviewRoundByID(ctx, roundID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load review round", slog.String("round_id", roundID))
		return nil, err
	}
	sub, err := s.loadSubmission(ctx, round.SubmissionID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.reviewRepo.ListAssignmentsByRound(ctx, roundID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list assignments", slog.String("round_id", roundID))
		return nil, err
	}
	detail := &domain.RoundDetail{Round: *round, Assignments: assignments, Closed: domain.RoundClosed(assignments)}

	authErr := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID))
	if authErr == nil {
		return detail, nil
	}
	if !errors.Is(authErr, apperrors.ErrForbidden) {
		return nil, authErr
	}

	// Reviewers see only their own assignments.
	own := make([]domain.ReviewAssignment, 0, 1)
	for _, a := range assignments {
		if a.ReviewerID == actorID {
			own = append(own, a)
		}
	}
	if len(own) == 0 {
		return nil, authErr
	}
	detail.Assignments = own
	return detail, nil
}

func (s *reviewService) AssignReviewer(ctx context.Context, actorID, roundID, reviewerID string, dueDate *time.Time) (*domain.ReviewAssignment, error) {
	round, err := s.reviewRepo.FindReviewRoundByID(ctx, roundID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load review round", slog.String("round_id", roundID))
		return nil, err
	}
	sub, err := s.loadSubmission(ctx, round.SubmissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	if err := requireInReview(sub); err != nil {
		return nil, err
	}
	if round.Decided() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("review round %d is already decided", round.RoundNumber))
	}
	if reviewerID == sub.SubmitterID {
		return nil, apperrors.NewValidationFailedError("the submitter cannot review their own submission")
	}
	now := s.Now()
	if dueDate != nil && dueDate.Before(now) {
		return nil, apperrors.NewValidationFailedError("due date must be in the future")
	}
	reviewer, err := s.userRepo.FindUserByID(ctx, reviewerID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Reviewer lookup failed", slog.String("reviewer_id", reviewerID))
		return nil, err
	}

	assignment := domain.ReviewAssignment{
		AssignmentID: uuid.NewString(),
		RoundID:      roundID,
		SubmissionID: sub.SubmissionID,
		ReviewerID:   reviewerID,
		Status:       domain.AssignmentPending,
		DateAssigned: now,
		DateDue:      dueDate,
		AssignedBy:   actorID,
	}

	err = s.InTx(ctx, func(ctx context.Context) error {
		rounds, err := s.reviewRepo.ListReviewRounds(ctx, sub.SubmissionID)
		if err != nil {
			return err
		}
		if len(rounds) == 0 || rounds[len(rounds)-1].RoundID != roundID {
			return apperrors.NewInvalidTransitionError("reviewers can only be invited to the latest review round")
		}
		existing, err := s.reviewRepo.ListAssignmentsByRound(ctx, roundID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if a.ReviewerID == reviewerID && a.Status != domain.AssignmentDeclined {
				return apperrors.NewConflictError("reviewer already has an active assignment in this round")
			}
		}
		if err := s.reviewRepo.SaveReviewAssignment(ctx, assignment); err != nil {
			return err
		}
		role := domain.RoleAssignment{UserID: reviewerID, Scope: domain.JournalScope(sub.JournalID), Role: domain.RoleReviewer}
		if _, err := s.projection.grant(ctx, role); err != nil {
			return err
		}
		return s.activity.record(ctx, now, sub.SubmissionID, actorID, domain.ActivityReview,
			fmt.Sprintf("Reviewer invited to review round %d", round.RoundNumber),
			map[string]any{"assignmentId": assignment.AssignmentID, "reviewerId": reviewerID, "roundId": roundID})
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to assign reviewer",
			slog.String("round_id", roundID), slog.String("reviewer_id", reviewerID))
		return nil, err
	}

	s.LogInfo(ctx, "Reviewer assigned",
		slog.String("assignment_id", assignment.AssignmentID),
		slog.String("reviewer_id", reviewerID))
	s.notifyInvited(ctx, *reviewer, *sub, assignment)
	return &assignment, nil
}

// notifyInvited runs after commit; delivery failures are logged and never undo the assignment.
func (s *reviewService) notifyInvited(ctx context.Context, reviewer domain.User, sub domain.Submission, assignment domain.ReviewAssignment) {
	if s.notifier == nil {
		return
	}
	journal, err := s.journalRepo.FindJournalByID(ctx, sub.JournalID)
	if err != nil {
		s.LogError(ctx, err, "Skipping reviewer invitation, journal lookup failed", slog.String("journal_id", sub.JournalID))
		return
	}
	invitation := domain.ReviewInvitation{Reviewer: reviewer, Submission: sub, Journal: *journal, Assignment: assignment}
	if err := s.notifier.NotifyReviewerInvited(ctx, invitation); err != nil {
		s.LogError(ctx, err, "Failed to send reviewer invitation",
			slog.String("assignment_id", assignment.AssignmentID))
	}
}

// changeAssignment validates and applies one edge of the assignment state machine.
func (s *reviewService) changeAssignment(ctx context.Context, actorID string, sub *domain.Submission, a *domain.ReviewAssignment, change domain.AssignmentChange, message string) (*domain.ReviewAssignment, error) {
	if sub.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s", sub.Status))
	}
	if err := domain.PlanAssignmentChange(*a, change.To, change.From...); err != nil {
		return nil, err
	}

	now := s.Now()
	change.From = []domain.ReviewAssignmentStatus{a.Status}
	err := s.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.reviewRepo.UpdateAssignmentStatus(ctx, a.AssignmentID, change)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewInvalidTransitionError("review assignment was changed concurrently")
		}
		metadata := map[string]any{"assignmentId": a.AssignmentID, "from": a.Status.String(), "to": change.To.String()}
		if change.Recommendation != nil {
			metadata["recommendation"] = change.Recommendation.String()
		}
		return s.activity.record(ctx, now, a.SubmissionID, actorID, domain.ActivityReview, message, metadata)
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to update review assignment",
			slog.String("assignment_id", a.AssignmentID), slog.String("to", change.To.String()))
		return nil, err
	}

	updated := *a
	updated.Status = change.To
	if change.RespondedAt != nil {
		updated.DateResponded = change.RespondedAt
	}
	if change.CompletedAt != nil {
		updated.DateCompleted = change.CompletedAt
	}
	if change.Recommendation != nil {
		updated.Recommendation = change.Recommendation
	}

	s.LogInfo(ctx, "Review assignment updated",
		slog.String("assignment_id", a.AssignmentID),
		slog.String("from", a.Status.String()),
		slog.String("to", change.To.String()))
	return &updated, nil
}

// loadOwnAssignment returns the assignment and its submission only if actorID is the
// assigned reviewer and still holds the reviewer role in the submission's journal.
func (s *reviewService) loadOwnAssignment(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, *domain.Submission, error) {
	if actorID == "" {
		return nil, nil, apperrors.NewUnauthenticatedError("authentication required")
	}
	a, err := s.reviewRepo.FindReviewAssignmentByID(ctx, assignmentID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load review assignment", slog.String("assignment_id", assignmentID))
		return nil, nil, err
	}
	if a.ReviewerID != actorID {
		return nil, nil, apperrors.NewForbiddenError("only the assigned reviewer may act on this assignment")
	}
	sub, err := s.loadSubmission(ctx, a.SubmissionID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, []domain.Role{domain.RoleReviewer}, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, nil, err
	}
	return a, sub, nil
}

func (s *reviewService) AcceptReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error) {
	a, sub, err := s.loadOwnAssignment(ctx, actorID, assignmentID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	return s.changeAssignment(ctx, actorID, sub, a, domain.AssignmentChange{
		From:        []domain.ReviewAssignmentStatus{domain.AssignmentPending},
		To:          domain.AssignmentAccepted,
		RespondedAt: &now,
	}, "Reviewer accepted the review request")
}

func (s *reviewService) DeclineReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error) {
	a, sub, err := s.loadOwnAssignment(ctx, actorID, assignmentID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	return s.changeAssignment(ctx, actorID, sub, a, domain.AssignmentChange{
		From:        []domain.ReviewAssignmentStatus{domain.AssignmentPending},
		To:          domain.AssignmentDeclined,
		RespondedAt: &now,
	}, "Reviewer declined the review request")
}

func (s *reviewService) SubmitReview(ctx context.Context, actorID, assignmentID string, recommendation domain.Recommendation) (*domain.ReviewAssignment, error) {
	a, sub, err := s.loadOwnAssignment(ctx, actorID, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.RecommendationFromCode(int(recommendation)); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	now := s.Now()
	return s.changeAssignment(ctx, actorID, sub, a, domain.AssignmentChange{
		From:           []domain.ReviewAssignmentStatus{domain.AssignmentAccepted},
		To:             domain.AssignmentCompleted,
		Recommendation: &recommendation,
		CompletedAt:    &now,
	}, fmt.Sprintf("Review submitted with recommendation %q", recommendation))
}

func (s *reviewService) WithdrawReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error) {
	a, sub, err := s.loadOwnAssignment(ctx, actorID, assignmentID)
	if err != nil {
		return nil, err
	}
	return s.changeAssignment(ctx, actorID, sub, a, domain.AssignmentChange{
		From: []domain.ReviewAssignmentStatus{domain.AssignmentAccepted},
		To:   domain.AssignmentDeclined,
	}, "Reviewer withdrew from the review")
}

func (s *reviewService) CancelReview(ctx context.Context, actorID, assignmentID string) (*domain.ReviewAssignment, error) {
	a, err := s.reviewRepo.FindReviewAssignmentByID(ctx, assignmentID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load review assignment", slog.String("assignment_id", assignmentID))
		return nil, err
	}
	sub, err := s.loadSubmission(ctx, a.SubmissionID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, actorID, domain.ReviewManagementRoles, domain.JournalScope(sub.JournalID)); err != nil {
		return nil, err
	}
	return s.changeAssignment(ctx, actorID, sub, a, domain.AssignmentChange{
		From: []domain.ReviewAssignmentStatus{domain.AssignmentPending, domain.AssignmentAccepted},
		To:   domain.AssignmentDeclined,
	}, "Review assignment cancelled by the editor")
}
