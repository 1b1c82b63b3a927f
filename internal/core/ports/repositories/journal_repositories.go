package repositories

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// JournalRepositoryFacade persists journals.
type JournalRepositoryFacade interface {
	// SaveJournal returns apperrors.ErrConflict when the path is taken.
	SaveJournal(ctx context.Context, journal domain.Journal) error
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
}
