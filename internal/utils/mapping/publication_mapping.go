package mapping

import (
	"fmt"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
)

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ToModelPublication converts a domain Version to its publications row.
func ToModelPublication(d domain.Version) models.Publication {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return models.Publication{
		VersionID:    d.VersionID,
		SubmissionID: d.SubmissionID,
		Version:      d.Number,
		Status:       d.Status.String(),
		ScheduledAt:  d.ScheduledAt,
		PublishedAt:  d.PublishedAt,
		Metadata:     metadata,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVersion converts a publications row, failing on unknown status labels.
func ToDomainVersion(m models.Publication) (domain.Version, error) {
	status, err := domain.ParseVersionStatus(m.Status)
	if err != nil {
		return domain.Version{}, fmt.Errorf("version %s: %w", m.VersionID, err)
	}
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return domain.Version{
		VersionID:    m.VersionID,
		SubmissionID: m.SubmissionID,
		Number:       m.Version,
		Status:       status,
		ScheduledAt:  utcPtr(m.ScheduledAt),
		PublishedAt:  utcPtr(m.PublishedAt),
		Metadata:     metadata,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToDomainVersionSlice(ms []models.Publication) ([]domain.Version, error) {
	ds := make([]domain.Version, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainVersion(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func ToModelIssue(d domain.Issue) models.Issue {
	return models.Issue{
		IssueID:       d.IssueID,
		JournalID:     d.JournalID,
		Volume:        d.Volume,
		Number:        d.Number,
		Year:          d.Year,
		Title:         d.Title,
		Published:     d.Published,
		DatePublished: d.DatePublished,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainIssue(m models.Issue) domain.Issue {
	return domain.Issue{
		IssueID:       m.IssueID,
		JournalID:     m.JournalID,
		Volume:        m.Volume,
		Number:        m.Number,
		Year:          m.Year,
		Title:         m.Title,
		Published:     m.Published,
		DatePublished: utcPtr(m.DatePublished),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainIssueSlice(ms []models.Issue) []domain.Issue {
	ds := make([]domain.Issue, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainIssue(m)
	}
	return ds
}
