package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SaveUser(ctx, domain.User{UserID: "u1", Username: "u1"}))
	require.NoError(t, s.SaveJournal(ctx, domain.Journal{JournalID: "j1", Path: "j1"}))
	return s, ctx
}

func submission(id string, at time.Time) domain.Submission {
	return domain.Submission{
		SubmissionID:  id,
		JournalID:     "j1",
		SubmitterID:   "u1",
		Stage:         domain.StageSubmission,
		Status:        domain.SubmissionQueued,
		DateSubmitted: at,
	}
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	s, ctx := seeded(t)
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
		require.NoError(t, s.AppendActivity(ctx, domain.ActivityLogEntry{EntryID: "e1", SubmissionID: "s1", CreatedAt: t0}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindSubmissionByID(ctx, "s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	entries, _, err := s.ListActivity(ctx, "s1", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	s, ctx := seeded(t)

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		return s.RunInTx(ctx, func(ctx context.Context) error {
			return s.SaveSubmission(ctx, submission("s1", t0))
		})
	})
	require.NoError(t, err)

	_, err = s.FindSubmissionByID(ctx, "s1")
	assert.NoError(t, err)
}

func TestWith_CanceledContext(t *testing.T) {
	s, _ := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindUserByID(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveSubmission_ForeignKeys(t *testing.T) {
	s, ctx := seeded(t)
	sub := submission("s1", t0)
	sub.JournalID = "nope"

	assert.ErrorIs(t, s.SaveSubmission(ctx, sub), apperrors.ErrValidation)
}

func TestUpdateSubmissionState_CompareAndSet(t *testing.T) {
	s, ctx := seeded(t)
	require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
	from := domain.SubmissionState{Stage: domain.StageSubmission, Status: domain.SubmissionQueued}
	to := domain.SubmissionState{Stage: domain.StageReview, Status: domain.SubmissionInReview}

	ok, err := s.UpdateSubmissionState(ctx, "s1", from, to, "u1", t0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UpdateSubmissionState(ctx, "s1", from, to, "u1", t0)
	require.NoError(t, err)
	assert.False(t, ok, "second writer loses")
}

func TestListSubmissionsByJournal_Pages(t *testing.T) {
	s, ctx := seeded(t)
	for i, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, s.SaveSubmission(ctx, submission(id, t0.Add(time.Duration(i)*time.Hour))))
	}

	page, next, err := s.ListSubmissionsByJournal(ctx, "j1", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "s3", page[0].SubmissionID)
	assert.Equal(t, "s2", page[1].SubmissionID)
	require.NotNil(t, next)

	page, next, err = s.ListSubmissionsByJournal(ctx, "j1", 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "s1", page[0].SubmissionID)
	assert.Nil(t, next)

	bad := "not-a-token"
	_, _, err = s.ListSubmissionsByJournal(ctx, "j1", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSaveVersion_DuplicateNumberConflicts(t *testing.T) {
	s, ctx := seeded(t)
	require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
	require.NoError(t, s.SaveVersion(ctx, domain.Version{VersionID: "v1", SubmissionID: "s1", Number: 1, Status: domain.VersionQueued}))

	err := s.SaveVersion(ctx, domain.Version{VersionID: "v2", SubmissionID: "s1", Number: 1, Status: domain.VersionQueued})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	n, err := s.MaxVersionNumber(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVersionMetadata_IsCopied(t *testing.T) {
	s, ctx := seeded(t)
	require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
	meta := map[string]any{"title": "A"}
	require.NoError(t, s.SaveVersion(ctx, domain.Version{VersionID: "v1", SubmissionID: "s1", Number: 1, Metadata: meta}))
	meta["title"] = "mutated"

	v, err := s.FindVersionByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "A", v.Metadata["title"])

	require.NoError(t, s.MergeVersionMetadata(ctx, "v1", map[string]any{domain.MetaIssueID: "i1"}, "u1", t0))
	v, err = s.FindVersionByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "A", domain.MetaIssueID: "i1"}, v.Metadata)

	byIssue, err := s.ListVersionsByIssue(ctx, "i1")
	require.NoError(t, err)
	assert.Len(t, byIssue, 1)

	assert.ErrorIs(t, s.MergeVersionMetadata(ctx, "missing", nil, "u1", t0), apperrors.ErrNotFound)
}

func TestUpdateVersionStatus_SetsDatesExactly(t *testing.T) {
	s, ctx := seeded(t)
	require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
	require.NoError(t, s.SaveVersion(ctx, domain.Version{VersionID: "v1", SubmissionID: "s1", Number: 1, Status: domain.VersionQueued}))
	due := t0.Add(24 * time.Hour)

	ok, err := s.UpdateVersionStatus(ctx, "v1", domain.VersionStatusChange{
		From: []domain.VersionStatus{domain.VersionQueued}, To: domain.VersionScheduled, ScheduledAt: &due,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	dueNow, err := s.ListDueScheduledVersions(ctx, due)
	require.NoError(t, err)
	assert.Len(t, dueNow, 1)
	notYet, err := s.ListDueScheduledVersions(ctx, t0)
	require.NoError(t, err)
	assert.Empty(t, notYet)

	ok, err = s.UpdateVersionStatus(ctx, "v1", domain.VersionStatusChange{
		From: []domain.VersionStatus{domain.VersionScheduled}, To: domain.VersionQueued,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	v, err := s.FindVersionByID(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, v.ScheduledAt)
	assert.Nil(t, v.PublishedAt)
}

func TestReviewAssignments_LiveDuplicate(t *testing.T) {
	s, ctx := seeded(t)
	require.NoError(t, s.SaveSubmission(ctx, submission("s1", t0)))
	require.NoError(t, s.SaveReviewRound(ctx, domain.ReviewRound{RoundID: "r1", SubmissionID: "s1", RoundNumber: 1}))
	assert.ErrorIs(t, s.SaveReviewRound(ctx, domain.ReviewRound{RoundID: "r2", SubmissionID: "s1", RoundNumber: 1}), apperrors.ErrConflict)

	a := domain.ReviewAssignment{AssignmentID: "a1", RoundID: "r1", SubmissionID: "s1", ReviewerID: "u1", Status: domain.AssignmentPending, DateAssigned: t0}
	require.NoError(t, s.SaveReviewAssignment(ctx, a))
	a.AssignmentID = "a2"
	assert.ErrorIs(t, s.SaveReviewAssignment(ctx, a), apperrors.ErrConflict)

	ok, err := s.UpdateAssignmentStatus(ctx, "a1", domain.AssignmentChange{
		From: []domain.ReviewAssignmentStatus{domain.AssignmentPending}, To: domain.AssignmentDeclined,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, s.SaveReviewAssignment(ctx, a), "a declined assignment frees the reviewer")

	ok, err = s.RecordRoundDecision(ctx, "r1", domain.DecisionAccept, t0)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.RecordRoundDecision(ctx, "r1", domain.DecisionResubmit, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	later := t0.Add(time.Hour)
	ok, err = s.ReviseRoundDecision(ctx, "r1", domain.DecisionResubmit, domain.DecisionRequestRevisions, later)
	require.NoError(t, err)
	assert.False(t, ok, "the stored decision is accept")
	ok, err = s.ReviseRoundDecision(ctx, "r1", domain.DecisionAccept, domain.DecisionRequestRevisions, later)
	require.NoError(t, err)
	assert.True(t, ok)

	round, err := s.FindReviewRoundByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRequestRevisions, round.Decision)
	require.NotNil(t, round.DecidedAt)
	assert.Equal(t, later, *round.DecidedAt)
}

func TestFlatRoles_LegacyLabels(t *testing.T) {
	s, ctx := seeded(t)
	j1 := "j1"
	s.SeedFlatRole("u1", &j1, "Sub-Editor")
	fact := domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1"), Role: domain.RoleSectionEditor}

	created, err := s.SaveFlatAssignment(ctx, fact)
	require.NoError(t, err)
	assert.False(t, created, "the legacy row already states the fact")

	roles, err := s.ListRolesForUser(ctx, "u1", domain.JournalScope("j1"))
	require.NoError(t, err)
	assert.Equal(t, []domain.RoleAssignment{fact}, roles)

	s.SeedFlatRole("u1", &j1, "chief_wizard")
	_, err = s.ListUserRoles(ctx, "u1")
	assert.Error(t, err, "unknown labels fail loudly")
}

func TestSaveFlatAssignment_UnknownUser(t *testing.T) {
	s, ctx := seeded(t)
	_, err := s.SaveFlatAssignment(ctx, domain.RoleAssignment{UserID: "ghost", Scope: domain.JournalScope("j1"), Role: domain.RoleAuthor})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestIssues(t *testing.T) {
	s, ctx := seeded(t)
	issue := domain.Issue{IssueID: "i1", JournalID: "j1", Volume: 1, Number: "2", Year: 2025}
	require.NoError(t, s.SaveIssue(ctx, issue))
	issue.IssueID = "i2"
	assert.ErrorIs(t, s.SaveIssue(ctx, issue), apperrors.ErrConflict)

	ok, err := s.SetIssuePublished(ctx, "i1", true, &t0, "u1", t0)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.SetIssuePublished(ctx, "i1", true, &t0, "u1", t0)
	require.NoError(t, err)
	assert.False(t, ok)
}
