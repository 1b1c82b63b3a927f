package domain

// Journal is a publication venue; journal-scoped roles, submissions and issues hang off it.
type Journal struct {
	JournalID string `json:"journalID"` // Primary Key (UUID)
	Path      string `json:"path"`      // URL slug, unique
	Name      string `json:"name"`
	AuditFields
}
