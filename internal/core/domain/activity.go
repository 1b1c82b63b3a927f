package domain

import "time"

// ActivityCategory groups activity log entries.
type ActivityCategory string

const (
	ActivitySubmission  ActivityCategory = "submission"
	ActivityStage       ActivityCategory = "stage"
	ActivityDecision    ActivityCategory = "decision"
	ActivityReview      ActivityCategory = "review"
	ActivityPublication ActivityCategory = "publication"
	ActivityIssue       ActivityCategory = "issue"
)

// ActivityLogEntry is an append-only audit record scoped to a submission.
type ActivityLogEntry struct {
	EntryID      string           `json:"entryID"`
	SubmissionID string           `json:"submissionID"`
	ActorID      string           `json:"actorID"`
	Category     ActivityCategory `json:"category"`
	Message      string           `json:"message"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}
