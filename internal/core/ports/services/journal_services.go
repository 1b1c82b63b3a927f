package services

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

// JournalSvcFacade manages journals.
type JournalSvcFacade interface {
	// CreateJournal requires site admin.
	CreateJournal(ctx context.Context, actorID, path, name string) (*domain.Journal, error)
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
}
