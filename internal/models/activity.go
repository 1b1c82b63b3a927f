package models

import "time"

// ActivityEntry is a row of the submission_activity table.
type ActivityEntry struct {
	EntryID      string         `db:"entry_id"`
	SubmissionID string         `db:"submission_id"`
	ActorID      string         `db:"actor_id"`
	Category     string         `db:"category"`
	Message      string         `db:"message"`
	Metadata     map[string]any `db:"metadata"`
	CreatedAt    time.Time      `db:"created_at"`
}
