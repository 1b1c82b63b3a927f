package services_test

import (
	"testing"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type SubmissionServiceTestSuite struct {
	workflowSuite
}

func (s *SubmissionServiceTestSuite) TestCreateSubmission_GrantsAuthorRole() {
	sub := s.newSubmission()

	s.Equal(domain.StageSubmission, sub.Stage)
	s.Equal(domain.SubmissionQueued, sub.Status)
	s.Equal(s.author, sub.SubmitterID)

	authorRole := domain.RoleAssignment{UserID: s.author, Scope: domain.JournalScope(s.journalA), Role: domain.RoleAuthor}
	roles, err := s.roles.ListMyRoles(s.ctx, s.author)
	s.Require().NoError(err)
	s.Contains(roles, authorRole)

	report, err := s.roles.CheckRoleConsistency(s.ctx, s.admin, &s.journalA)
	s.Require().NoError(err)
	s.NotContains(report.MissingNormalized, authorRole, "author grant must reach both role forms")
}

func (s *SubmissionServiceTestSuite) TestCreateSubmission_Validation() {
	_, err := s.submissions.CreateSubmission(s.ctx, s.author, s.journalA, "   ")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.submissions.CreateSubmission(s.ctx, "", s.journalA, "Title")
	s.ErrorIs(err, apperrors.ErrUnauthenticated)

	_, err = s.submissions.CreateSubmission(s.ctx, s.author, "journal-missing", "Title")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SubmissionServiceTestSuite) TestAdvanceStage_NoSkipping() {
	sub := s.newSubmission()

	_, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageProduction)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	s.Equal(domain.StageSubmission, s.reload(sub.SubmissionID).Stage)
}

func (s *SubmissionServiceTestSuite) TestAdvanceStage_ToReviewSetsInReview() {
	sub := s.newSubmission()

	updated, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageReview)
	s.Require().NoError(err)
	s.Equal(domain.StageReview, updated.Stage)
	s.Equal(domain.SubmissionInReview, updated.Status)

	stored := s.reload(sub.SubmissionID)
	s.Equal(updated.State(), stored.State())
}

func (s *SubmissionServiceTestSuite) TestAdvanceStage_Authorization() {
	sub := s.newSubmission()

	_, err := s.submissions.AdvanceStage(s.ctx, s.author, sub.SubmissionID, domain.StageReview)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.submissions.AdvanceStage(s.ctx, s.editorB, sub.SubmissionID, domain.StageReview)
	s.ErrorIs(err, apperrors.ErrForbidden, "an editor of another journal has no rights here")

	_, err = s.submissions.AdvanceStage(s.ctx, s.sectionEditorA, sub.SubmissionID, domain.StageReview)
	s.ErrorIs(err, apperrors.ErrForbidden, "stage changes need manager or editor")

	_, err = s.submissions.AdvanceStage(s.ctx, "", sub.SubmissionID, domain.StageReview)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)

	_, err = s.submissions.AdvanceStage(s.ctx, s.admin, sub.SubmissionID, domain.StageReview)
	s.NoError(err, "site admins pass every check")
}

func (s *SubmissionServiceTestSuite) TestAdvanceStage_PendingAssignmentBlocksCopyediting() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)

	round, err := s.reviews.OpenReviewRound(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	_, err = s.reviews.AssignReviewer(s.ctx, s.editorA, round.RoundID, s.reviewer1, nil)
	s.Require().NoError(err)

	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.Equal(domain.StageReview, s.reload(sub.SubmissionID).Stage)
}

func (s *SubmissionServiceTestSuite) TestAdvanceStage_CopyeditingNeedsAcceptDecision() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)

	_, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.ErrorIs(err, apperrors.ErrInvalidTransition, "no round yet")

	round, err := s.reviews.OpenReviewRound(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	a, err := s.reviews.AssignReviewer(s.ctx, s.editorA, round.RoundID, s.reviewer1, nil)
	s.Require().NoError(err)
	_, err = s.reviews.DeclineReview(s.ctx, s.reviewer1, a.AssignmentID)
	s.Require().NoError(err)

	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.ErrorIs(err, apperrors.ErrInvalidTransition, "round closed but undecided")

	_, err = s.submissions.RecordDecision(s.ctx, s.editorA, sub.SubmissionID, domain.DecisionAccept)
	s.Require().NoError(err)

	updated, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.Require().NoError(err)
	s.Equal(domain.StageCopyediting, updated.Stage)
	s.Equal(domain.SubmissionQueued, updated.Status)
}

func (s *SubmissionServiceTestSuite) TestRecordDecision_RequiresClosedRound() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)

	_, err := s.submissions.RecordDecision(s.ctx, s.editorA, sub.SubmissionID, domain.DecisionAccept)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	round, err := s.reviews.OpenReviewRound(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	_, err = s.reviews.AssignReviewer(s.ctx, s.editorA, round.RoundID, s.reviewer1, nil)
	s.Require().NoError(err)

	_, err = s.submissions.RecordDecision(s.ctx, s.editorA, sub.SubmissionID, domain.DecisionAccept)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	_, err = s.submissions.RecordDecision(s.ctx, s.editorA, sub.SubmissionID, domain.DecisionNone)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *SubmissionServiceTestSuite) TestRecordDecision_OnlyOnce() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)
	s.acceptedRound(sub.SubmissionID)

	_, err := s.submissions.RecordDecision(s.ctx, s.editorA, sub.SubmissionID, domain.DecisionRequestRevisions)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *SubmissionServiceTestSuite) TestReturnToReview() {
	sub := s.newSubmission()

	_, err := s.submissions.ReturnToReview(s.ctx, s.editorA, sub.SubmissionID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	s.toReview(sub.SubmissionID)
	s.acceptedRound(sub.SubmissionID)
	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.Require().NoError(err)

	updated, err := s.submissions.ReturnToReview(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(domain.StageReview, updated.Stage)
	s.Equal(domain.SubmissionInReview, updated.Status)

	round, err := s.reviews.OpenReviewRound(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	s.Equal(2, round.RoundNumber)
}

func (s *SubmissionServiceTestSuite) TestReturnToReview_NeedsNewAcceptedRound() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)
	first := s.acceptedRound(sub.SubmissionID)
	_, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.Require().NoError(err)

	_, err = s.submissions.ReturnToReview(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)

	revised, err := s.store.FindReviewRoundByID(s.ctx, first.RoundID)
	s.Require().NoError(err)
	s.Equal(domain.DecisionRequestRevisions, revised.Decision)

	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.ErrorIs(err, apperrors.ErrInvalidTransition, "the earlier accept no longer counts")

	second := s.acceptedRound(sub.SubmissionID)
	s.Equal(2, second.RoundNumber)

	updated, err := s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageCopyediting)
	s.Require().NoError(err)
	s.Equal(domain.StageCopyediting, updated.Stage)
}

func (s *SubmissionServiceTestSuite) TestDecline_IsTerminal() {
	sub := s.newSubmission()

	declined, err := s.submissions.DeclineSubmission(s.ctx, s.editorA, sub.SubmissionID, "out of scope")
	s.Require().NoError(err)
	s.Equal(domain.SubmissionDeclined, declined.Status)
	s.Equal(domain.StageSubmission, declined.Stage)

	_, err = s.submissions.AdvanceStage(s.ctx, s.editorA, sub.SubmissionID, domain.StageReview)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = s.submissions.WithdrawSubmission(s.ctx, s.author, sub.SubmissionID, "")
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = s.publication.CreateVersion(s.ctx, s.editorA, sub.SubmissionID, nil)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *SubmissionServiceTestSuite) TestWithdraw_BySubmitterOnly() {
	sub := s.newSubmission()

	_, err := s.submissions.WithdrawSubmission(s.ctx, s.outsider, sub.SubmissionID, "")
	s.ErrorIs(err, apperrors.ErrForbidden)

	withdrawn, err := s.submissions.WithdrawSubmission(s.ctx, s.author, sub.SubmissionID, "found a flaw")
	s.Require().NoError(err)
	s.Equal(domain.SubmissionWithdrawn, withdrawn.Status)
}

func (s *SubmissionServiceTestSuite) TestWithdraw_SubmitterNeedsAuthorRole() {
	sub := s.newSubmission()

	removed, err := s.roles.RevokeRole(s.ctx, s.managerA, domain.RoleAssignment{
		UserID: s.author,
		Scope:  domain.JournalScope(s.journalA),
		Role:   domain.RoleAuthor,
	})
	s.Require().NoError(err)
	s.True(removed)

	_, err = s.submissions.WithdrawSubmission(s.ctx, s.author, sub.SubmissionID, "")
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Equal(domain.SubmissionQueued, s.reload(sub.SubmissionID).Status)
}

func (s *SubmissionServiceTestSuite) TestGetSubmission_Visibility() {
	sub := s.newSubmission()

	_, err := s.submissions.GetSubmission(s.ctx, s.author, sub.SubmissionID)
	s.NoError(err)
	_, err = s.submissions.GetSubmission(s.ctx, s.sectionEditorA, sub.SubmissionID)
	s.NoError(err)
	_, err = s.submissions.GetSubmission(s.ctx, s.outsider, sub.SubmissionID)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.submissions.GetSubmission(s.ctx, s.editorB, sub.SubmissionID)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.submissions.GetSubmission(s.ctx, s.author, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SubmissionServiceTestSuite) TestGetSubmissionOverview() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)
	s.acceptedRound(sub.SubmissionID)

	overview, err := s.submissions.GetSubmissionOverview(s.ctx, s.editorA, sub.SubmissionID)
	s.Require().NoError(err)
	s.Require().Len(overview.Rounds, 1)
	s.True(overview.Rounds[0].Closed)
	s.Len(overview.Rounds[0].Assignments, 1)
	s.NotNil(overview.Versions)
	s.Empty(overview.Versions)
}

func (s *SubmissionServiceTestSuite) TestListSubmissions_Paginates() {
	for i := 0; i < 3; i++ {
		s.newSubmission()
	}

	page, next, err := s.submissions.ListSubmissions(s.ctx, s.editorA, s.journalA, 2, nil)
	s.Require().NoError(err)
	s.Len(page, 2)
	s.Require().NotNil(next)

	rest, next, err := s.submissions.ListSubmissions(s.ctx, s.editorA, s.journalA, 2, next)
	s.Require().NoError(err)
	s.Len(rest, 1)
	s.Nil(next)
	s.NotContains(page, rest[0])

	_, _, err = s.submissions.ListSubmissions(s.ctx, s.author, s.journalA, 2, nil)
	s.ErrorIs(err, apperrors.ErrForbidden)

	empty, _, err := s.submissions.ListSubmissions(s.ctx, s.editorB, s.journalB, 10, nil)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *SubmissionServiceTestSuite) TestActivity_RecordsEveryTransition() {
	sub := s.newSubmission()
	s.toReview(sub.SubmissionID)

	entries, _, err := s.submissions.ListActivity(s.ctx, s.author, sub.SubmissionID, 10, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	categories := []domain.ActivityCategory{entries[0].Category, entries[1].Category}
	s.ElementsMatch([]domain.ActivityCategory{domain.ActivitySubmission, domain.ActivityStage}, categories)
}

func (s *SubmissionServiceTestSuite) TestLegacyRoleLabelsAuthorize() {
	legacyEditor := s.seedUser("legacy-editor")
	s.store.SeedFlatRole(legacyEditor, &s.journalA, "Journal Manager")
	sub := s.newSubmission()

	_, err := s.submissions.AdvanceStage(s.ctx, legacyEditor, sub.SubmissionID, domain.StageReview)
	s.NoError(err)
}

func TestSubmissionService(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}
