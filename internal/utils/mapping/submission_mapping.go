package mapping

import (
	"fmt"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
)

// ToModelSubmission converts a domain Submission to a model Submission
func ToModelSubmission(d domain.Submission) models.Submission {
	return models.Submission{
		SubmissionID:     d.SubmissionID,
		JournalID:        d.JournalID,
		SubmitterID:      d.SubmitterID,
		Title:            d.Title,
		Stage:            d.Stage.String(),
		Status:           d.Status.String(),
		CurrentVersionID: d.CurrentVersionID,
		DateSubmitted:    d.DateSubmitted,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubmission converts a row, failing on stage or status labels outside the known set.
func ToDomainSubmission(m models.Submission) (domain.Submission, error) {
	stage, err := domain.ParseStage(m.Stage)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("submission %s: %w", m.SubmissionID, err)
	}
	status, err := domain.ParseSubmissionStatus(m.Status)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("submission %s: %w", m.SubmissionID, err)
	}
	return domain.Submission{
		SubmissionID:     m.SubmissionID,
		JournalID:        m.JournalID,
		SubmitterID:      m.SubmitterID,
		Title:            m.Title,
		Stage:            stage,
		Status:           status,
		CurrentVersionID: m.CurrentVersionID,
		DateSubmitted:    m.DateSubmitted.UTC(),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainSubmissionSlice converts rows, stopping at the first invalid one.
func ToDomainSubmissionSlice(ms []models.Submission) ([]domain.Submission, error) {
	ds := make([]domain.Submission, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainSubmission(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
