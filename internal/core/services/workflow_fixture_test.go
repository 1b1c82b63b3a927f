package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)

// MockReviewerNotifier records invitations.
type MockReviewerNotifier struct {
	mock.Mock
}

func (m *MockReviewerNotifier) NotifyReviewerInvited(ctx context.Context, invitation domain.ReviewInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

// workflowSuite wires every workflow service over one in-memory store with two journals.
type workflowSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store

	authorizer  portssvc.AuthorizerSvc
	roles       portssvc.RoleSvcFacade
	submissions portssvc.SubmissionSvcFacade
	reviews     portssvc.ReviewSvcFacade
	publication portssvc.PublicationSvcFacade
	issues      portssvc.IssueSvcFacade
	notifier    *MockReviewerNotifier

	journalA, journalB string
	admin              string
	editorA, editorB   string
	sectionEditorA     string
	managerA           string
	author             string
	reviewer1          string
	reviewer2          string
	outsider           string
}

func (s *workflowSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	repos := s.store.Provider()
	clock := func() time.Time { return fixedNow }

	s.notifier = new(MockReviewerNotifier)
	s.notifier.On("NotifyReviewerInvited", mock.Anything, mock.Anything).Return(nil).Maybe()

	s.authorizer = services.NewAuthorizationService(repos.RoleRepo)
	s.roles = services.NewRoleService(repos.RoleRepo, repos.TxManager, s.authorizer)
	s.submissions = services.NewSubmissionService(repos, s.authorizer)
	s.reviews = services.NewReviewService(repos, s.authorizer,
		services.WithReviewerNotifier(s.notifier), services.WithReviewClock(clock))
	s.publication = services.NewPublicationService(repos, s.authorizer, services.WithPublicationClock(clock))
	s.issues = services.NewIssueService(repos, s.authorizer, services.WithIssueClock(clock))

	s.journalA = s.seedJournal("journal-a")
	s.journalB = s.seedJournal("journal-b")

	s.admin = s.seedUser("admin")
	s.editorA = s.seedUser("editor-a")
	s.editorB = s.seedUser("editor-b")
	s.sectionEditorA = s.seedUser("section-editor-a")
	s.managerA = s.seedUser("manager-a")
	s.author = s.seedUser("author")
	s.reviewer1 = s.seedUser("reviewer-1")
	s.reviewer2 = s.seedUser("reviewer-2")
	s.outsider = s.seedUser("outsider")

	s.store.SeedFlatRole(s.admin, nil, "site_admin")
	s.store.SeedFlatRole(s.editorA, &s.journalA, "editor")
	s.store.SeedFlatRole(s.editorB, &s.journalB, "editor")
	s.store.SeedFlatRole(s.sectionEditorA, &s.journalA, "section_editor")
	s.store.SeedFlatRole(s.managerA, &s.journalA, "manager")
}

func (s *workflowSuite) seedUser(username string) string {
	user := domain.User{
		UserID:      "user-" + username,
		Username:    username,
		Name:        username,
		Email:       username + "@example.org",
		AuditFields: domain.NewAuditFields("seed", fixedNow),
	}
	s.Require().NoError(s.store.SaveUser(s.ctx, user))
	return user.UserID
}

func (s *workflowSuite) seedJournal(path string) string {
	journal := domain.Journal{
		JournalID:   "journal-" + path,
		Path:        path,
		Name:        path,
		AuditFields: domain.NewAuditFields("seed", fixedNow),
	}
	s.Require().NoError(s.store.SaveJournal(s.ctx, journal))
	return journal.JournalID
}

func (s *workflowSuite) newSubmission() *domain.Submission {
	sub, err := s.submissions.CreateSubmission(s.ctx, s.author, s.journalA, "On the Origin of Tests")
	s.Require().NoError(err)
	return sub
}

func (s *workflowSuite) toReview(submissionID string) {
	_, err := s.submissions.AdvanceStage(s.ctx, s.editorA, submissionID, domain.StageReview)
	s.Require().NoError(err)
}

// acceptedRound runs one round to completion with a single reviewer and an accept decision.
func (s *workflowSuite) acceptedRound(submissionID string) *domain.ReviewRound {
	round, err := s.reviews.OpenReviewRound(s.ctx, s.editorA, submissionID)
	s.Require().NoError(err)
	a, err := s.reviews.AssignReviewer(s.ctx, s.editorA, round.RoundID, s.reviewer1, nil)
	s.Require().NoError(err)
	_, err = s.reviews.AcceptReview(s.ctx, s.reviewer1, a.AssignmentID)
	s.Require().NoError(err)
	_, err = s.reviews.SubmitReview(s.ctx, s.reviewer1, a.AssignmentID, domain.RecommendationAccept)
	s.Require().NoError(err)
	decided, err := s.submissions.RecordDecision(s.ctx, s.editorA, submissionID, domain.DecisionAccept)
	s.Require().NoError(err)
	return decided
}

// inProduction returns a submission that went through every stage.
func (s *workflowSuite) inProduction() *domain.Submission {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)
	s.acceptedRound(sub.SubmissionID)
	_, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.Require().NoError(err)
	updated, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageProduction)
	s.Require().NoError(err)
	return updated
}

func (s *workflowSuite) reload(submissionID string) *domain.Submission {
	sub, err := s.store.FindSubmissionByID(s.ctx, submissionID)
	s.Require().NoError(err)
	return sub
}
