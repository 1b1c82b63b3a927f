package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/google/uuid"
)

var journalPathPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: BaseService{Authorizer: authorizer},
		journalRepo: journalRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) CreateJournal(ctx context.Context, actorID, path, name string) (*domain.Journal, error) {
	if err := s.AuthorizeUser(ctx, actorID, nil, domain.SiteScope()); err != nil {
		return nil, err
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if !journalPathPattern.MatchString(path) {
		return nil, apperrors.NewValidationFailedError("journal path must be 2-64 lowercase letters, digits, '-' or '_'")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationFailedError("journal name is required")
	}

	journal := domain.Journal{
		JournalID:   uuid.NewString(),
		Path:        path,
		Name:        strings.TrimSpace(name),
		AuditFields: domain.NewAuditFields(actorID, s.Now()),
	}
	if err := s.journalRepo.SaveJournal(ctx, journal); err != nil {
		s.LogUnexpected(ctx, err, "Failed to save journal", slog.String("path", path))
		return nil, err
	}

	s.LogInfo(ctx, "Journal created", slog.String("journal_id", journal.JournalID))
	return &journal, nil
}

func (s *journalService) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find journal", slog.String("journal_id", journalID))
		return nil, err
	}
	return journal, nil
}
