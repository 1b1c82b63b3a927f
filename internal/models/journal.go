package models

// Journal is a row of the journals table.
type Journal struct {
	JournalID string `db:"journal_id"`
	Path      string `db:"path"`
	Name      string `db:"name"`
	AuditFields
}
