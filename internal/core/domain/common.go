package domain

import (
	"slices"
	"strings"
	"time"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}

// normalizeLabel lower-cases a legacy label and folds '-' and ' ' into '_'.
func normalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.ReplaceAll(l, "-", "_")
	return strings.ReplaceAll(l, " ", "_")
}

// labelsOf collects the legacy labels that map to v, with canonical leading.
func labelsOf[T comparable](v T, canonical string, legacy map[string]T) []string {
	out := []string{canonical}
	for label, mapped := range legacy {
		if mapped == v && label != canonical {
			out = append(out, label)
		}
	}
	slices.Sort(out[1:])
	return out
}
