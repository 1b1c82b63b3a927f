package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReviewRepository struct {
	BaseRepository
}

func newPgxReviewRepository(pool *pgxpool.Pool) portsrepo.ReviewRepositoryFacade {
	return &PgxReviewRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReviewRepositoryFacade = (*PgxReviewRepository)(nil)

const (
	reviewRoundSelectQuery = `
SELECT round_id, submission_id, round, stage, decision, decided_at, created_at, created_by
FROM review_rounds
`
	reviewAssignmentSelectQuery = `
SELECT assignment_id, round_id, submission_id, reviewer_id, status, recommendation,
       date_assigned, date_responded, date_due, date_completed, assigned_by
FROM review_assignments
`
)

func (r *PgxReviewRepository) SaveReviewRound(ctx context.Context, round domain.ReviewRound) error {
	m := mapping.ToModelReviewRound(round)
	query := `
		INSERT INTO review_rounds (round_id, submission_id, round, stage, decision, decided_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.RoundID, m.SubmissionID, m.Round, m.Stage, m.Decision, m.DecidedAt, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return writeError(err, "review round number is already taken", "save review round")
	}
	return nil
}

func (r *PgxReviewRepository) FindReviewRoundByID(ctx context.Context, roundID string) (*domain.ReviewRound, error) {
	m, err := collectOne[models.ReviewRound](ctx, r.DB(ctx), "review round", roundID,
		reviewRoundSelectQuery+"WHERE round_id = $1", roundID)
	if err != nil {
		return nil, err
	}
	round, err := mapping.ToDomainReviewRound(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable review round", err)
	}
	return &round, nil
}

func (r *PgxReviewRepository) ListReviewRounds(ctx context.Context, submissionID string) ([]domain.ReviewRound, error) {
	rows, err := collect[models.ReviewRound](ctx, r.DB(ctx), "review rounds",
		reviewRoundSelectQuery+"WHERE submission_id = $1 ORDER BY round", submissionID)
	if err != nil {
		return nil, err
	}
	rounds, err := mapping.ToDomainReviewRoundSlice(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable review round", err)
	}
	return rounds, nil
}

func (r *PgxReviewRepository) RecordRoundDecision(ctx context.Context, roundID string, decision domain.EditorialDecision, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE review_rounds SET decision = $1, decided_at = $2
		WHERE round_id = $3 AND decision = 0;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, int(decision), decidedAt, roundID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to record round decision", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxReviewRepository) ReviseRoundDecision(ctx context.Context, roundID string, from, to domain.EditorialDecision, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE review_rounds SET decision = $1, decided_at = $2
		WHERE round_id = $3 AND decision = $4;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, int(to), decidedAt, roundID, int(from))
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to revise round decision", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxReviewRepository) SaveReviewAssignment(ctx context.Context, assignment domain.ReviewAssignment) error {
	m := mapping.ToModelReviewAssignment(assignment)
	query := `
		INSERT INTO review_assignments (
			assignment_id, round_id, submission_id, reviewer_id, status, recommendation,
			date_assigned, date_responded, date_due, date_completed, assigned_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.AssignmentID, m.RoundID, m.SubmissionID, m.ReviewerID, m.Status, m.Recommendation,
		m.DateAssigned, m.DateResponded, m.DateDue, m.DateCompleted, m.AssignedBy,
	)
	if err != nil {
		return writeError(err, "reviewer already has an active assignment in this round", "save review assignment")
	}
	return nil
}

func (r *PgxReviewRepository) FindReviewAssignmentByID(ctx context.Context, assignmentID string) (*domain.ReviewAssignment, error) {
	m, err := collectOne[models.ReviewAssignment](ctx, r.DB(ctx), "review assignment", assignmentID,
		reviewAssignmentSelectQuery+"WHERE assignment_id = $1", assignmentID)
	if err != nil {
		return nil, err
	}
	a, err := mapping.ToDomainReviewAssignment(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable review assignment", err)
	}
	return &a, nil
}

func (r *PgxReviewRepository) ListAssignmentsByRound(ctx context.Context, roundID string) ([]domain.ReviewAssignment, error) {
	rows, err := collect[models.ReviewAssignment](ctx, r.DB(ctx), "review assignments",
		reviewAssignmentSelectQuery+"WHERE round_id = $1 ORDER BY date_assigned, assignment_id", roundID)
	if err != nil {
		return nil, err
	}
	assignments, err := mapping.ToDomainReviewAssignmentSlice(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable review assignment", err)
	}
	return assignments, nil
}

func (r *PgxReviewRepository) UpdateAssignmentStatus(ctx context.Context, assignmentID string, change domain.AssignmentChange) (bool, error) {
	from := make([]int, len(change.From))
	for i, s := range change.From {
		from[i] = int(s)
	}
	var rec *int
	if change.Recommendation != nil {
		code := int(*change.Recommendation)
		rec = &code
	}
	query := `
		UPDATE review_assignments
		SET status = $1,
		    recommendation = COALESCE($2::integer, recommendation),
		    date_responded = COALESCE($3::timestamptz, date_responded),
		    date_completed = COALESCE($4::timestamptz, date_completed)
		WHERE assignment_id = $5 AND status = ANY($6::integer[]);
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		int(change.To), rec, change.RespondedAt, change.CompletedAt, assignmentID, from)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update review assignment", err)
	}
	return tag.RowsAffected() == 1, nil
}
