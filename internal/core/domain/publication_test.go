package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePlacement_MetadataPatch(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	patch := domain.IssuePlacement{IssueID: "i1", Pages: "1-12", DatePublished: &date}.MetadataPatch()

	assert.Equal(t, map[string]any{
		domain.MetaIssueID:       "i1",
		domain.MetaPages:         "1-12",
		domain.MetaDatePublished: "2025-01-10",
	}, patch)
}

func TestMergeMetadata(t *testing.T) {
	base := map[string]any{"title": "On Things", domain.MetaSection: "articles"}
	patch := map[string]any{domain.MetaIssueID: "i1", domain.MetaSection: "reviews"}

	merged := domain.MergeMetadata(base, patch)

	assert.Equal(t, "On Things", merged["title"])
	assert.Equal(t, "reviews", merged[domain.MetaSection])
	assert.Equal(t, "i1", merged[domain.MetaIssueID])
	assert.Equal(t, "articles", base[domain.MetaSection], "base must not be modified")
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = domain.ParseDate("2025-01-10T08:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 6, 30, 0, 0, time.UTC), d)

	_, err = domain.ParseDate("10/01/2025")
	assert.Error(t, err)
}

func TestVersionStatus_SubmissionStatusFor(t *testing.T) {
	assert.Equal(t, domain.SubmissionPublished, domain.VersionPublished.SubmissionStatusFor())
	assert.Equal(t, domain.SubmissionScheduled, domain.VersionScheduled.SubmissionStatusFor())
	assert.Equal(t, domain.SubmissionQueued, domain.VersionQueued.SubmissionStatusFor())
}
