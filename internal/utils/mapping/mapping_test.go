package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainSubmission_LegacyLabels(t *testing.T) {
	d, err := ToDomainSubmission(models.Submission{SubmissionID: "s1", Stage: "External Review", Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, d.Stage)
	assert.Equal(t, domain.SubmissionDeclined, d.Status)

	m := ToModelSubmission(d)
	assert.Equal(t, "review", m.Stage, "writes use canonical labels")
	assert.Equal(t, "declined", m.Status)
}

func TestToDomainSubmission_UnknownLabelFails(t *testing.T) {
	_, err := ToDomainSubmission(models.Submission{SubmissionID: "s1", Stage: "limbo", Status: "queued"})
	assert.ErrorContains(t, err, "s1")

	_, err = ToDomainSubmissionSlice([]models.Submission{
		{SubmissionID: "ok", Stage: "review", Status: "queued"},
		{SubmissionID: "bad", Stage: "review", Status: "lost"},
	})
	assert.ErrorContains(t, err, "bad")
}

func TestToDomainRoleAssignment(t *testing.T) {
	j := "j1"
	a, err := ToDomainRoleAssignment(models.UserRole{UserID: "u1", JournalID: &j, RoleName: "Journal Manager"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1"), Role: domain.RoleManager}, a)

	site, err := ToDomainRoleAssignment(models.UserRole{UserID: "u1", RoleName: "admin"})
	require.NoError(t, err)
	assert.True(t, site.Scope.IsSite())

	_, err = ToDomainRoleAssignmentSlice([]models.UserRole{{UserID: "u1", RoleName: "wizard"}})
	assert.Error(t, err)
}

func TestToDomainGroupMembership_KeepsRawClass(t *testing.T) {
	m := ToDomainGroupMembership(models.UserGroupMembership{UserID: "u1", GroupID: "g1", RoleID: 0x4000})
	assert.Equal(t, domain.RoleClass(0x4000), m.Class)
	_, err := m.Assignment()
	assert.Error(t, err)
}

func TestToDomainReviewAssignment_Codes(t *testing.T) {
	rec := 1
	responded := time.Date(2025, 1, 5, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	a, err := ToDomainReviewAssignment(models.ReviewAssignment{AssignmentID: "a1", Status: 3, Recommendation: &rec, DateResponded: &responded})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentCompleted, a.Status)
	require.NotNil(t, a.Recommendation)
	assert.Equal(t, domain.RecommendationAccept, *a.Recommendation)
	assert.Equal(t, time.UTC, a.DateResponded.Location())

	_, err = ToDomainReviewAssignment(models.ReviewAssignment{AssignmentID: "a2", Status: 9})
	assert.Error(t, err)

	bad := 99
	_, err = ToDomainReviewAssignment(models.ReviewAssignment{AssignmentID: "a3", Status: 1, Recommendation: &bad})
	assert.Error(t, err)
}
