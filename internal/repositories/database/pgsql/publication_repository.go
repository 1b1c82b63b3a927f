package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVersionRepository stores submission versions in the publications table.
type PgxVersionRepository struct {
	BaseRepository
}

func newPgxVersionRepository(pool *pgxpool.Pool) portsrepo.VersionRepositoryFacade {
	return &PgxVersionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VersionRepositoryFacade = (*PgxVersionRepository)(nil)

const versionSelectQuery = `
SELECT version_id, submission_id, version, status, scheduled_at, published_at, metadata,
       created_at, created_by, last_updated_at, last_updated_by
FROM publications
`

func (r *PgxVersionRepository) list(ctx context.Context, filter string, args ...any) ([]domain.Version, error) {
	rows, err := collect[models.Publication](ctx, r.DB(ctx), "versions", versionSelectQuery+filter, args...)
	if err != nil {
		return nil, err
	}
	versions, err := mapping.ToDomainVersionSlice(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable version", err)
	}
	return versions, nil
}

func (r *PgxVersionRepository) SaveVersion(ctx context.Context, version domain.Version) error {
	m := mapping.ToModelPublication(version)
	query := `
		INSERT INTO publications (
			version_id, submission_id, version, status, scheduled_at, published_at, metadata,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.VersionID, m.SubmissionID, m.Version, m.Status, m.ScheduledAt, m.PublishedAt, m.Metadata,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, fmt.Sprintf("version %d already exists", version.Number), "save version")
	}
	return nil
}

func (r *PgxVersionRepository) FindVersionByID(ctx context.Context, versionID string) (*domain.Version, error) {
	m, err := collectOne[models.Publication](ctx, r.DB(ctx), "version", versionID,
		versionSelectQuery+"WHERE version_id = $1", versionID)
	if err != nil {
		return nil, err
	}
	v, err := mapping.ToDomainVersion(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "unreadable version", err)
	}
	return &v, nil
}

func (r *PgxVersionRepository) ListVersionsBySubmission(ctx context.Context, submissionID string) ([]domain.Version, error) {
	return r.list(ctx, "WHERE submission_id = $1 ORDER BY version", submissionID)
}

func (r *PgxVersionRepository) MaxVersionNumber(ctx context.Context, submissionID string) (int, error) {
	var maxNumber int
	err := r.DB(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM publications WHERE submission_id = $1`, submissionID,
	).Scan(&maxNumber)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to read max version number", err)
	}
	return maxNumber, nil
}

func (r *PgxVersionRepository) ListVersionsByIssue(ctx context.Context, issueID string, statuses ...domain.VersionStatus) ([]domain.Version, error) {
	if len(statuses) == 0 {
		return r.list(ctx, "WHERE metadata ->> 'issueId' = $1 ORDER BY submission_id, version", issueID)
	}
	labels := make([]string, len(statuses))
	for i, s := range statuses {
		labels[i] = s.String()
	}
	return r.list(ctx, "WHERE metadata ->> 'issueId' = $1 AND status = ANY($2::text[]) ORDER BY submission_id, version",
		issueID, labels)
}

func (r *PgxVersionRepository) ListDueScheduledVersions(ctx context.Context, now time.Time) ([]domain.Version, error) {
	return r.list(ctx, "WHERE status = $1 AND scheduled_at <= $2 ORDER BY scheduled_at, version_id",
		domain.VersionScheduled.String(), now)
}

func (r *PgxVersionRepository) UpdateVersionStatus(ctx context.Context, versionID string, change domain.VersionStatusChange) (bool, error) {
	from := make([]string, len(change.From))
	for i, s := range change.From {
		from[i] = s.String()
	}
	query := `
		UPDATE publications
		SET status = $1, scheduled_at = $2, published_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE version_id = $6 AND status = ANY($7::text[]);
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		change.To.String(), change.ScheduledAt, change.PublishedAt, change.UpdatedAt, change.UpdatedBy,
		versionID, from)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update version status", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MergeVersionMetadata uses jsonb concatenation, so keys absent from patch survive.
func (r *PgxVersionRepository) MergeVersionMetadata(ctx context.Context, versionID string, patch map[string]any, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE publications
		SET metadata = metadata || $1::jsonb, last_updated_at = $2, last_updated_by = $3
		WHERE version_id = $4;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, patch, updatedAt, updatedBy, versionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to merge version metadata", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("version " + versionID + " not found")
	}
	return nil
}
