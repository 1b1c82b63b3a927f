package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type IssueServiceTestSuite struct {
	workflowSuite
}

func (s *IssueServiceTestSuite) TestCreateIssue_Validation() {
	cases := []struct {
		name   string
		volume int
		number string
		year   int
	}{
		{"zero volume", 0, "1", 2025},
		{"blank number", 1, " ", 2025},
		{"short year", 1, "1", 25},
	}
	for _, tc := range cases {
		_, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, tc.volume, tc.number, tc.year, "")
		s.ErrorIs(err, apperrors.ErrValidation, tc.name)
	}

	_, err := s.issues.CreateIssue(s.ctx, s.author, s.journalA, 1, "1", 2025, "")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *IssueServiceTestSuite) TestCreateIssue_DuplicateConflicts() {
	issue, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 3, "2", 2025, "Spring")
	s.Require().NoError(err)
	s.Equal("Vol. 3 No. 2 (2025)", issue.Label())

	_, err = s.issues.CreateIssue(s.ctx, s.managerA, s.journalA, 3, "2", 2025, "")
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *IssueServiceTestSuite) TestListIssues() {
	_, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 1, "1", 2024, "")
	s.Require().NoError(err)
	_, err = s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 2, "1", 2025, "")
	s.Require().NoError(err)

	issues, err := s.issues.ListIssues(s.ctx, s.author, s.journalA)
	s.Require().NoError(err)
	s.Require().Len(issues, 2)
	s.Equal(2025, issues[0].Year)

	_, err = s.issues.ListIssues(s.ctx, "", s.journalA)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)

	empty, err := s.issues.ListIssues(s.ctx, s.author, s.journalB)
	s.Require().NoError(err)
	s.NotNil(empty)
}

func (s *IssueServiceTestSuite) TestPublishIssue_CascadesToScheduledVersions() {
	sub := s.inProduction()
	v, err := s.publication.CreateVersion(s.ctx, s.editorA, sub.SubmissionID, nil)
	s.Require().NoError(err)
	_, err = s.publication.PromoteVersion(s.ctx, s.editorA, v.VersionID)
	s.Require().NoError(err)
	issue, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 3, "2", 2025, "")
	s.Require().NoError(err)
	_, err = s.publication.AssignIssue(s.ctx, s.editorA, v.VersionID, domain.IssuePlacement{IssueID: issue.IssueID})
	s.Require().NoError(err)
	scheduled, err := s.publication.PublishVersion(s.ctx, s.editorA, v.VersionID, "2025-03-01", false)
	s.Require().NoError(err)

	// A queued version placed in the same issue is left alone.
	other := s.inProduction()
	queued, err := s.publication.CreateVersion(s.ctx, s.editorA, other.SubmissionID, nil)
	s.Require().NoError(err)
	_, err = s.publication.AssignIssue(s.ctx, s.editorA, queued.VersionID, domain.IssuePlacement{IssueID: issue.IssueID})
	s.Require().NoError(err)

	published, err := s.issues.PublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)
	s.True(published.Published)
	s.Require().NotNil(published.DatePublished)
	s.True(fixedNow.Equal(*published.DatePublished))

	stored, err := s.store.FindVersionByID(s.ctx, v.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionPublished, stored.Status)
	s.True(fixedNow.Equal(*stored.PublishedAt))
	s.True(scheduled.ScheduledAt.Equal(*stored.ScheduledAt), "scheduled date is kept")
	s.Equal(domain.SubmissionPublished, s.reload(sub.SubmissionID).Status)

	untouched, err := s.store.FindVersionByID(s.ctx, queued.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionQueued, untouched.Status)

	_, err = s.issues.PublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	unpublished, err := s.issues.UnpublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)
	s.False(unpublished.Published)
	s.Nil(unpublished.DatePublished)

	stored, err = s.store.FindVersionByID(s.ctx, v.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionScheduled, stored.Status)
	s.Nil(stored.PublishedAt)
	s.True(scheduled.ScheduledAt.Equal(*stored.ScheduledAt))
	s.Equal(domain.SubmissionScheduled, s.reload(sub.SubmissionID).Status)

	_, err = s.issues.UnpublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *IssueServiceTestSuite) TestPublishIssue_SkipsClosedSubmissions() {
	sub := s.inProduction()
	v, err := s.publication.CreateVersion(s.ctx, s.editorA, sub.SubmissionID, nil)
	s.Require().NoError(err)
	issue, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 1, "1", 2025, "")
	s.Require().NoError(err)
	_, err = s.publication.AssignIssue(s.ctx, s.editorA, v.VersionID, domain.IssuePlacement{IssueID: issue.IssueID})
	s.Require().NoError(err)
	_, err = s.publication.PublishVersion(s.ctx, s.editorA, v.VersionID, "2025-03-01", false)
	s.Require().NoError(err)
	_, err = s.submissions.WithdrawSubmission(s.ctx, s.author, sub.SubmissionID, "")
	s.Require().NoError(err)

	_, err = s.issues.PublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)

	stored, err := s.store.FindVersionByID(s.ctx, v.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionScheduled, stored.Status)
}

func (s *IssueServiceTestSuite) TestUnpublishIssue_PromotionWaitsForTheIssue() {
	sub := s.inProduction()
	placed, err := s.publication.CreateVersion(s.ctx, s.editorA, sub.SubmissionID, nil)
	s.Require().NoError(err)
	_, err = s.publication.PromoteVersion(s.ctx, s.editorA, placed.VersionID)
	s.Require().NoError(err)
	issue, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 4, "1", 2025, "")
	s.Require().NoError(err)
	_, err = s.publication.AssignIssue(s.ctx, s.editorA, placed.VersionID, domain.IssuePlacement{IssueID: issue.IssueID})
	s.Require().NoError(err)
	_, err = s.publication.PublishVersion(s.ctx, s.editorA, placed.VersionID, "2025-01-10", false)
	s.Require().NoError(err)

	// A due version outside any issue is still promoted by the same run.
	loose := s.inProduction()
	unplaced, err := s.publication.CreateVersion(s.ctx, s.editorA, loose.SubmissionID, nil)
	s.Require().NoError(err)
	_, err = s.publication.PublishVersion(s.ctx, s.editorA, unplaced.VersionID, "2025-01-12", false)
	s.Require().NoError(err)

	_, err = s.issues.PublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)
	_, err = s.issues.UnpublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)

	promoted, err := s.publication.PromoteDueVersions(s.ctx, s.admin, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(promoted, 1)
	s.Equal(unplaced.VersionID, promoted[0].VersionID)

	stored, err := s.store.FindVersionByID(s.ctx, placed.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionScheduled, stored.Status)
	s.Nil(stored.PublishedAt)
	s.Equal(domain.SubmissionScheduled, s.reload(sub.SubmissionID).Status)

	_, err = s.issues.PublishIssue(s.ctx, s.editorA, issue.IssueID)
	s.Require().NoError(err)
	stored, err = s.store.FindVersionByID(s.ctx, placed.VersionID)
	s.Require().NoError(err)
	s.Equal(domain.VersionPublished, stored.Status)
}

func (s *IssueServiceTestSuite) TestPublishIssue_Authorization() {
	issue, err := s.issues.CreateIssue(s.ctx, s.editorA, s.journalA, 1, "1", 2025, "")
	s.Require().NoError(err)

	_, err = s.issues.PublishIssue(s.ctx, s.editorB, issue.IssueID)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.issues.PublishIssue(s.ctx, s.editorA, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestIssueService(t *testing.T) {
	suite.Run(t, new(IssueServiceTestSuite))
}
