package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/SscSPs/editorial_workflow/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSubmissionRepository struct {
	BaseRepository
}

func newPgxSubmissionRepository(pool *pgxpool.Pool) portsrepo.SubmissionRepositoryFacade {
	return &PgxSubmissionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SubmissionRepositoryFacade = (*PgxSubmissionRepository)(nil)

const submissionSelectQuery = `
SELECT submission_id, journal_id, submitter_id, title, stage, status, current_version_id,
       date_submitted, created_at, created_by, last_updated_at, last_updated_by
FROM submissions
`

func (r *PgxSubmissionRepository) SaveSubmission(ctx context.Context, submission domain.Submission) error {
	m := mapping.ToModelSubmission(submission)
	query := `
		INSERT INTO submissions (
			submission_id, journal_id, submitter_id, title, stage, status, current_version_id,
			date_submitted, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.SubmissionID, m.JournalID, m.SubmitterID, m.Title, m.Stage, m.Status, m.CurrentVersionID,
		m.DateSubmitted, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "submission "+submission.SubmissionID+" already exists", "save submission")
	}
	return nil
}

func (r *PgxSubmissionRepository) FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	m, err := collectOne[models.Submission](ctx, r.DB(ctx), "submission", submissionID,
		submissionSelectQuery+"WHERE submission_id = $1", submissionID)
	if err != nil {
		return nil, err
	}
	sub, err := mapping.ToDomainSubmission(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable submission", err)
	}
	return &sub, nil
}

func (r *PgxSubmissionRepository) ListSubmissionsByJournal(ctx context.Context, journalID string, limit int, nextToken *string) ([]domain.Submission, *string, error) {
	var (
		rows []models.Submission
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationFailedError(decodeErr.Error())
		}
		rows, err = collect[models.Submission](ctx, r.DB(ctx), "submissions", submissionSelectQuery+`
			WHERE journal_id = $1 AND (date_submitted, submission_id) < ($2, $3)
			ORDER BY date_submitted DESC, submission_id DESC
			LIMIT $4`, journalID, cursor.At, cursor.ID, limit)
	} else {
		rows, err = collect[models.Submission](ctx, r.DB(ctx), "submissions", submissionSelectQuery+`
			WHERE journal_id = $1
			ORDER BY date_submitted DESC, submission_id DESC
			LIMIT $2`, journalID, limit)
	}
	if err != nil {
		return nil, nil, err
	}

	subs, err := mapping.ToDomainSubmissionSlice(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "unreadable submission", err)
	}
	if len(subs) == 0 {
		return subs, nil, nil
	}
	last := subs[len(subs)-1]
	return subs, pagination.NextToken(len(subs), limit, last.DateSubmitted, last.SubmissionID), nil
}

// UpdateSubmissionState matches `from` under any stored spelling and writes canonical labels.
func (r *PgxSubmissionRepository) UpdateSubmissionState(ctx context.Context, submissionID string, from, to domain.SubmissionState, updatedBy string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE submissions
		SET stage = $1, status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE submission_id = $5 AND translate(lower(trim(stage)), '- ', '__') = ANY($6::text[]) AND translate(lower(trim(status)), '- ', '__') = ANY($7::text[]);
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		to.Stage.String(), to.Status.String(), updatedAt, updatedBy,
		submissionID, from.Stage.Labels(), from.Status.Labels(),
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update submission state", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxSubmissionRepository) SetCurrentVersion(ctx context.Context, submissionID, versionID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE submissions
		SET current_version_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE submission_id = $4;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, versionID, updatedAt, updatedBy, submissionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set current version", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("submission " + submissionID + " not found")
	}
	return nil
}
