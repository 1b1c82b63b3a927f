package models

import "time"

// Publication is a row of the publications table, one per submission version.
type Publication struct {
	VersionID    string         `db:"version_id"`
	SubmissionID string         `db:"submission_id"`
	Version      int            `db:"version"`
	Status       string         `db:"status"`
	ScheduledAt  *time.Time     `db:"scheduled_at"`
	PublishedAt  *time.Time     `db:"published_at"`
	Metadata     map[string]any `db:"metadata"`
	AuditFields
}

// Issue is a row of the issues table.
type Issue struct {
	IssueID       string     `db:"issue_id"`
	JournalID     string     `db:"journal_id"`
	Volume        int        `db:"volume"`
	Number        string     `db:"number"`
	Year          int        `db:"year"`
	Title         string     `db:"title"`
	Published     bool       `db:"published"`
	DatePublished *time.Time `db:"date_published"`
	AuditFields
}
