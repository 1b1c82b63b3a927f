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

type PgxIssueRepository struct {
	BaseRepository
}

func newPgxIssueRepository(pool *pgxpool.Pool) portsrepo.IssueRepositoryFacade {
	return &PgxIssueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IssueRepositoryFacade = (*PgxIssueRepository)(nil)

const issueSelectQuery = `
SELECT issue_id, journal_id, volume, number, year, title, published, date_published,
       created_at, created_by, last_updated_at, last_updated_by
FROM issues
`

func (r *PgxIssueRepository) SaveIssue(ctx context.Context, issue domain.Issue) error {
	m := mapping.ToModelIssue(issue)
	query := `
		INSERT INTO issues (
			issue_id, journal_id, volume, number, year, title, published, date_published,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.IssueID, m.JournalID, m.Volume, m.Number, m.Year, m.Title, m.Published, m.DatePublished,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, fmt.Sprintf("%s already exists", issue.Label()), "save issue")
	}
	return nil
}

func (r *PgxIssueRepository) FindIssueByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	m, err := collectOne[models.Issue](ctx, r.DB(ctx), "issue", issueID, issueSelectQuery+"WHERE issue_id = $1", issueID)
	if err != nil {
		return nil, err
	}
	issue := mapping.ToDomainIssue(*m)
	return &issue, nil
}

func (r *PgxIssueRepository) ListIssuesByJournal(ctx context.Context, journalID string) ([]domain.Issue, error) {
	rows, err := collect[models.Issue](ctx, r.DB(ctx), "issues",
		issueSelectQuery+"WHERE journal_id = $1 ORDER BY year DESC, volume DESC, number DESC", journalID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainIssueSlice(rows), nil
}

func (r *PgxIssueRepository) SetIssuePublished(ctx context.Context, issueID string, published bool, datePublished *time.Time, updatedBy string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE issues
		SET published = $1, date_published = $2, last_updated_at = $3, last_updated_by = $4
		WHERE issue_id = $5 AND published <> $1;
	`
	tag, err := r.DB(ctx).Exec(ctx, query, published, datePublished, updatedAt, updatedBy, issueID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update issue", err)
	}
	return tag.RowsAffected() == 1, nil
}
