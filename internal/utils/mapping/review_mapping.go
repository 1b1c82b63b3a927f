package mapping

import (
	"fmt"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
)

func ToModelReviewRound(d domain.ReviewRound) models.ReviewRound {
	return models.ReviewRound{
		RoundID:      d.RoundID,
		SubmissionID: d.SubmissionID,
		Round:        d.RoundNumber,
		Stage:        d.Stage.String(),
		Decision:     int(d.Decision),
		DecidedAt:    d.DecidedAt,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

func ToDomainReviewRound(m models.ReviewRound) (domain.ReviewRound, error) {
	stage, err := domain.ParseStage(m.Stage)
	if err != nil {
		return domain.ReviewRound{}, fmt.Errorf("review round %s: %w", m.RoundID, err)
	}
	decision, err := domain.EditorialDecisionFromCode(m.Decision)
	if err != nil {
		return domain.ReviewRound{}, fmt.Errorf("review round %s: %w", m.RoundID, err)
	}
	return domain.ReviewRound{
		RoundID:      m.RoundID,
		SubmissionID: m.SubmissionID,
		RoundNumber:  m.Round,
		Stage:        stage,
		Decision:     decision,
		DecidedAt:    utcPtr(m.DecidedAt),
		CreatedAt:    m.CreatedAt.UTC(),
		CreatedBy:    m.CreatedBy,
	}, nil
}

func ToDomainReviewRoundSlice(ms []models.ReviewRound) ([]domain.ReviewRound, error) {
	ds := make([]domain.ReviewRound, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainReviewRound(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func ToModelReviewAssignment(d domain.ReviewAssignment) models.ReviewAssignment {
	var rec *int
	if d.Recommendation != nil {
		code := int(*d.Recommendation)
		rec = &code
	}
	return models.ReviewAssignment{
		AssignmentID:   d.AssignmentID,
		RoundID:        d.RoundID,
		SubmissionID:   d.SubmissionID,
		ReviewerID:     d.ReviewerID,
		Status:         int(d.Status),
		Recommendation: rec,
		DateAssigned:   d.DateAssigned,
		DateResponded:  d.DateResponded,
		DateDue:        d.DateDue,
		DateCompleted:  d.DateCompleted,
		AssignedBy:     d.AssignedBy,
	}
}

// ToDomainReviewAssignment converts a row, failing on unknown status or recommendation codes.
func ToDomainReviewAssignment(m models.ReviewAssignment) (domain.ReviewAssignment, error) {
	status, err := domain.ReviewAssignmentStatusFromCode(m.Status)
	if err != nil {
		return domain.ReviewAssignment{}, fmt.Errorf("review assignment %s: %w", m.AssignmentID, err)
	}
	var rec *domain.Recommendation
	if m.Recommendation != nil {
		r, err := domain.RecommendationFromCode(*m.Recommendation)
		if err != nil {
			return domain.ReviewAssignment{}, fmt.Errorf("review assignment %s: %w", m.AssignmentID, err)
		}
		rec = &r
	}
	return domain.ReviewAssignment{
		AssignmentID:   m.AssignmentID,
		RoundID:        m.RoundID,
		SubmissionID:   m.SubmissionID,
		ReviewerID:     m.ReviewerID,
		Status:         status,
		Recommendation: rec,
		DateAssigned:   m.DateAssigned.UTC(),
		DateResponded:  utcPtr(m.DateResponded),
		DateDue:        utcPtr(m.DateDue),
		DateCompleted:  utcPtr(m.DateCompleted),
		AssignedBy:     m.AssignedBy,
	}, nil
}

func ToDomainReviewAssignmentSlice(ms []models.ReviewAssignment) ([]domain.ReviewAssignment, error) {
	ds := make([]domain.ReviewAssignment, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainReviewAssignment(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
