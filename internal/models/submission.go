package models

import "time"

// Submission is a row of the submissions table. Stage and status are stored as labels.
type Submission struct {
	SubmissionID     string    `db:"submission_id"`
	JournalID        string    `db:"journal_id"`
	SubmitterID      string    `db:"submitter_id"`
	Title            string    `db:"title"`
	Stage            string    `db:"stage"`
	Status           string    `db:"status"`
	CurrentVersionID *string   `db:"current_version_id"`
	DateSubmitted    time.Time `db:"date_submitted"`
	AuditFields
}
