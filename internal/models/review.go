package models

import "time"

// ReviewRound is a row of the review_rounds table.
type ReviewRound struct {
	RoundID      string     `db:"round_id"`
	SubmissionID string     `db:"submission_id"`
	Round        int        `db:"round"`
	Stage        string     `db:"stage"`
	Decision     int        `db:"decision"`
	DecidedAt    *time.Time `db:"decided_at"`
	CreatedAt    time.Time  `db:"created_at"`
	CreatedBy    string     `db:"created_by"`
}

// ReviewAssignment is a row of the review_assignments table.
type ReviewAssignment struct {
	AssignmentID   string     `db:"assignment_id"`
	RoundID        string     `db:"round_id"`
	SubmissionID   string     `db:"submission_id"`
	ReviewerID     string     `db:"reviewer_id"`
	Status         int        `db:"status"`
	Recommendation *int       `db:"recommendation"`
	DateAssigned   time.Time  `db:"date_assigned"`
	DateResponded  *time.Time `db:"date_responded"`
	DateDue        *time.Time `db:"date_due"`
	DateCompleted  *time.Time `db:"date_completed"`
	AssignedBy     string     `db:"assigned_by"`
}
