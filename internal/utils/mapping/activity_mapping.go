package mapping

import (
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/models"
)

func ToModelActivityEntry(d domain.ActivityLogEntry) models.ActivityEntry {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return models.ActivityEntry{
		EntryID:      d.EntryID,
		SubmissionID: d.SubmissionID,
		ActorID:      d.ActorID,
		Category:     string(d.Category),
		Message:      d.Message,
		Metadata:     metadata,
		CreatedAt:    d.CreatedAt,
	}
}

func ToDomainActivityEntry(m models.ActivityEntry) domain.ActivityLogEntry {
	return domain.ActivityLogEntry{
		EntryID:      m.EntryID,
		SubmissionID: m.SubmissionID,
		ActorID:      m.ActorID,
		Category:     domain.ActivityCategory(m.Category),
		Message:      m.Message,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func ToDomainActivityEntrySlice(ms []models.ActivityEntry) []domain.ActivityLogEntry {
	ds := make([]domain.ActivityLogEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainActivityEntry(m)
	}
	return ds
}
