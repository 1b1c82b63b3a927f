package pgsql

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/SscSPs/editorial_workflow/internal/models"
	"github.com/SscSPs/editorial_workflow/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (journal_id, path, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.JournalID, m.Path, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return writeError(err, "journal path "+journal.Path+" is already taken", "save journal")
	}
	return nil
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, path, name, created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE journal_id = $1
	`
	m, err := collectOne[models.Journal](ctx, r.DB(ctx), "journal", journalID, query, journalID)
	if err != nil {
		return nil, err
	}
	j := mapping.ToDomainJournal(*m)
	return &j, nil
}
