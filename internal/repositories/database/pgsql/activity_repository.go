package pgsql

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/SscSPs/editorial_workflow/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxActivityRepository struct {
	BaseRepository
}

func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepository {
	return &PgxActivityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActivityRepository = (*PgxActivityRepository)(nil)

const activitySelectQuery = `
SELECT entry_id, submission_id, actor_id, category, message, metadata, created_at
FROM submission_activity
`

func (r *PgxActivityRepository) AppendActivity(ctx context.Context, entry domain.ActivityLogEntry) error {
	m := mapping.ToModelActivityEntry(entry)
	query := `
		INSERT INTO submission_activity (entry_id, submission_id, actor_id, category, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.EntryID, m.SubmissionID, m.ActorID, m.Category, m.Message, m.Metadata, m.CreatedAt)
	if err != nil {
		return writeError(err, "activity entry already exists", "append activity")
	}
	return nil
}

func (r *PgxActivityRepository) ListActivity(ctx context.Context, submissionID string, limit int, nextToken *string) ([]domain.ActivityLogEntry, *string, error) {
	var (
		rows []models.ActivityEntry
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationFailedError(decodeErr.Error())
		}
		rows, err = collect[models.ActivityEntry](ctx, r.DB(ctx), "activity", activitySelectQuery+`
			WHERE submission_id = $1 AND (created_at, entry_id) < ($2, $3)
			ORDER BY created_at DESC, entry_id DESC
			LIMIT $4`, submissionID, cursor.At, cursor.ID, limit)
	} else {
		rows, err = collect[models.ActivityEntry](ctx, r.DB(ctx), "activity", activitySelectQuery+`
			WHERE submission_id = $1
			ORDER BY created_at DESC, entry_id DESC
			LIMIT $2`, submissionID, limit)
	}
	if err != nil {
		return nil, nil, err
	}

	entries := mapping.ToDomainActivityEntrySlice(rows)
	if len(entries) == 0 {
		return entries, nil, nil
	}
	last := entries[len(entries)-1]
	return entries, pagination.NextToken(len(entries), limit, last.CreatedAt, last.EntryID), nil
}
