package pgsql

import (
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      newPgxTxManager(dbPool),
		RoleRepo:       newPgxRoleRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		JournalRepo:    newPgxJournalRepository(dbPool),
		SubmissionRepo: newPgxSubmissionRepository(dbPool),
		ReviewRepo:     newPgxReviewRepository(dbPool),
		VersionRepo:    newPgxVersionRepository(dbPool),
		IssueRepo:      newPgxIssueRepository(dbPool),
		ActivityRepo:   newPgxActivityRepository(dbPool),
	}
}
